package repositories

import (
	"context"

	"bibliotheque/internal/adapters/persistence/models"
)

// BookRepository defines book repository interface
type BookRepository interface {
	Repository[models.Book]
	FindByTitle(ctx context.Context, title string) ([]*models.Book, error)
	FindByAuthor(ctx context.Context, author string) ([]*models.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*models.Book, error)
	FindAllAvailable(ctx context.Context) ([]*models.Book, error)
	// UpdateAvailability is the only writer of the availability flag besides a
	// caller-supplied full Update.
	UpdateAvailability(ctx context.Context, id uint, available bool) (bool, error)
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Repository[models.Member]
	FindByName(ctx context.Context, lastName string) ([]*models.Member, error)
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	FindByFullName(ctx context.Context, lastName, firstName string) ([]*models.Member, error)
}

// LoanRepository defines loan repository interface.
//
// Insert, Delete and ReturnLoan keep the book availability flag in step with
// the loan, inside one store transaction.
type LoanRepository interface {
	Repository[models.Loan]
	ReturnLoan(ctx context.Context, id uint, returnDate string) (bool, error)
	FindByBookID(ctx context.Context, bookID uint) ([]*models.Loan, error)
	FindByMemberID(ctx context.Context, memberID uint) ([]*models.Loan, error)
	FindAllInProgress(ctx context.Context) ([]*models.Loan, error)
	FindAllOverdue(ctx context.Context) ([]*models.Loan, error)
	FindOverdueAsOf(ctx context.Context, today string) ([]*models.Loan, error)
	FindAllWithDetails(ctx context.Context) ([]*models.Loan, error)
}
