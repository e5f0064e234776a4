package repositories

import (
	"context"
	"fmt"

	"bibliotheque/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	crudRepository[models.Book]
}

// NewBookRepository creates a new book repository
func NewBookRepository(store *Store) BookRepository {
	return &bookRepository{crudRepository: newCrudRepository[models.Book](store)}
}

// FindByTitle finds books whose title contains the text
func (r *bookRepository) FindByTitle(ctx context.Context, title string) ([]*models.Book, error) {
	return r.findWhere(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(titre) LIKE LOWER(?) ESCAPE '!'", containsPattern(title))
	})
}

// FindByAuthor finds books whose author contains the text, ignoring case
func (r *bookRepository) FindByAuthor(ctx context.Context, author string) ([]*models.Book, error) {
	return r.findWhere(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(auteur) LIKE LOWER(?) ESCAPE '!'", containsPattern(author))
	})
}

// FindByISBN gets a book by exact ISBN
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	return r.findOne(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("isbn = ?", isbn)
	})
}

// FindAllAvailable finds books that are not lent out
func (r *bookRepository) FindAllAvailable(ctx context.Context) ([]*models.Book, error) {
	return r.findWhere(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("disponible = ?", true)
	})
}

// UpdateAvailability sets the availability flag of one book
func (r *bookRepository) UpdateAvailability(ctx context.Context, id uint, available bool) (bool, error) {
	var affected int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.Book{}).Where("id = ?", id).Update("disponible", available)
		if result.Error != nil {
			return fmt.Errorf("update availability of book %d: %w", id, result.Error)
		}
		affected = result.RowsAffected
		return nil
	})
	return affected == 1, err
}
