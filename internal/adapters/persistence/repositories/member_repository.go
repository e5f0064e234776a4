package repositories

import (
	"context"

	"bibliotheque/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	crudRepository[models.Member]
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(store *Store) MemberRepository {
	return &memberRepository{crudRepository: newCrudRepository[models.Member](store)}
}

// FindByName finds members whose last name contains the text
func (r *memberRepository) FindByName(ctx context.Context, lastName string) ([]*models.Member, error) {
	return r.findWhere(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(nom) LIKE LOWER(?) ESCAPE '!'", containsPattern(lastName))
	})
}

// FindByEmail gets a member by exact email
func (r *memberRepository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	return r.findOne(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("email = ?", email)
	})
}

// FindByFullName finds members matching both a last name and a first name fragment
func (r *memberRepository) FindByFullName(ctx context.Context, lastName, firstName string) ([]*models.Member, error) {
	return r.findWhere(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.
			Where("LOWER(nom) LIKE LOWER(?) ESCAPE '!'", containsPattern(lastName)).
			Where("LOWER(prenom) LIKE LOWER(?) ESCAPE '!'", containsPattern(firstName))
	})
}
