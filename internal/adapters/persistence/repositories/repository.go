package repositories

import (
	"context"
	"errors"
	"fmt"

	"bibliotheque/internal/core/domain"

	"gorm.io/gorm"
)

// Entity is a record persisted in its own table with a store-assigned id
type Entity interface {
	TableName() string
	Key() uint
}

// Repository is the CRUD contract shared by books, members and loans.
//
// FindByID returns (nil, nil) when the row does not exist. Update and Delete
// return false when no row was affected and only fail on store errors.
type Repository[T Entity] interface {
	Insert(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, entity *T) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	FindAll(ctx context.Context) ([]*T, error)
}

// crudRepository implements Repository for any Entity
type crudRepository[T Entity] struct {
	store *Store
}

func newCrudRepository[T Entity](store *Store) crudRepository[T] {
	return crudRepository[T]{store: store}
}

// Insert inserts the entity and fills in its generated id
func (r crudRepository[T]) Insert(ctx context.Context, entity *T) (*T, error) {
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return insert(tx, entity)
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Update overwrites every column of the row with the entity's values
func (r crudRepository[T]) Update(ctx context.Context, entity *T) (bool, error) {
	if (*entity).Key() == 0 {
		return false, nil
	}

	var affected int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		result := tx.Model(entity).Select("*").Updates(entity)
		if result.Error != nil {
			return translate("update", *entity, result.Error)
		}
		affected = result.RowsAffected
		return nil
	})
	return affected == 1, err
}

// Delete deletes the row with the given id
func (r crudRepository[T]) Delete(ctx context.Context, id uint) (bool, error) {
	var affected int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		result := tx.Delete(new(T), id)
		if result.Error != nil {
			var zero T
			return translate("delete", zero, result.Error)
		}
		affected = result.RowsAffected
		return nil
	})
	return affected == 1, err
}

// FindByID gets an entity by ID
func (r crudRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var found *T
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = first[T](tx.Where("id = ?", id))
		return err
	})
	return found, err
}

// FindAll gets every entity in store order
func (r crudRepository[T]) FindAll(ctx context.Context) ([]*T, error) {
	return r.findWhere(ctx, nil)
}

// findWhere gets the entities matching a condition; nil scope matches all rows
func (r crudRepository[T]) findWhere(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*T, error) {
	entities := []*T{}
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		if scope != nil {
			tx = tx.Scopes(scope)
		}
		if err := tx.Find(&entities).Error; err != nil {
			var zero T
			return fmt.Errorf("find %s: %w", zero.TableName(), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// findOne gets the single entity matching a condition, or nil
func (r crudRepository[T]) findOne(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*T, error) {
	var found *T
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = first[T](tx.Scopes(scope))
		return err
	})
	return found, err
}

func insert[T Entity](tx *gorm.DB, entity *T) error {
	result := tx.Create(entity)
	if result.Error != nil {
		return translate("insert", *entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return &domain.PersistenceError{Op: "insert", Entity: (*entity).TableName(), Err: domain.ErrNoRowsAffected}
	}
	if (*entity).Key() == 0 {
		return &domain.PersistenceError{Op: "insert", Entity: (*entity).TableName(), Err: domain.ErrNoGeneratedID}
	}
	return nil
}

func first[T Entity](tx *gorm.DB) (*T, error) {
	var entity T
	err := tx.Take(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", entity.TableName(), err)
	}
	return &entity, nil
}

// translate wraps a store error, mapping unique violations to domain.ErrDuplicateEntry
func translate(op string, entity Entity, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %s: %w", op, entity.TableName(), domain.ErrDuplicateEntry)
	}
	return fmt.Errorf("%s %s: %w", op, entity.TableName(), err)
}

// containsPattern builds a LIKE pattern matching text anywhere, with
// wildcards in text escaped by '!'
func containsPattern(text string) string {
	escaped := make([]rune, 0, len(text)+2)
	escaped = append(escaped, '%')
	for _, c := range text {
		if c == '%' || c == '_' || c == '!' {
			escaped = append(escaped, '!')
		}
		escaped = append(escaped, c)
	}
	escaped = append(escaped, '%')
	return string(escaped)
}
