package repositories

import (
	"context"
	"fmt"
	"time"

	"bibliotheque/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DateLayout is the ISO date format stored in every date column
const DateLayout = "2006-01-02"

const openLoanCondition = "(date_retour_reelle IS NULL OR date_retour_reelle = '')"

// loanRepository implements LoanRepository interface
type loanRepository struct {
	crudRepository[models.Loan]
	books   BookRepository
	members MemberRepository
	now     func() time.Time
}

// LoanOption configures a loan repository
type LoanOption func(*loanRepository)

// WithClock sets the clock used to decide which loans are overdue
func WithClock(now func() time.Time) LoanOption {
	return func(r *loanRepository) {
		r.now = now
	}
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(store *Store, books BookRepository, members MemberRepository, opts ...LoanOption) LoanRepository {
	r := &loanRepository{
		crudRepository: newCrudRepository[models.Loan](store),
		books:          books,
		members:        members,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Insert inserts the loan and marks its book unavailable
func (r *loanRepository) Insert(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	err := r.store.Transaction(ctx, func(ctx context.Context) error {
		if err := r.store.Run(ctx, func(tx *gorm.DB) error {
			return insert(tx, loan)
		}); err != nil {
			return err
		}

		_, err := r.books.UpdateAvailability(ctx, loan.BookID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Delete deletes the loan; an open loan gives its book back
func (r *loanRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.store.Transaction(ctx, func(ctx context.Context) error {
		loan, err := r.crudRepository.FindByID(ctx, id)
		if err != nil || loan == nil {
			return err
		}

		deleted, err = r.crudRepository.Delete(ctx, id)
		if err != nil || !deleted {
			return err
		}

		if loan.InProgress() {
			_, err = r.books.UpdateAvailability(ctx, loan.BookID, true)
		}
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ReturnLoan records the return date and gives the book back.
// It returns false when no loan row was updated.
func (r *loanRepository) ReturnLoan(ctx context.Context, id uint, returnDate string) (bool, error) {
	var returned bool
	err := r.store.Transaction(ctx, func(ctx context.Context) error {
		var affected int64
		err := r.store.Run(ctx, func(tx *gorm.DB) error {
			result := tx.Model(&models.Loan{}).Where("id = ?", id).Update("date_retour_reelle", returnDate)
			if result.Error != nil {
				return fmt.Errorf("return loan %d: %w", id, result.Error)
			}
			affected = result.RowsAffected
			return nil
		})
		if err != nil || affected == 0 {
			return err
		}
		returned = true

		loan, err := r.crudRepository.FindByID(ctx, id)
		if err != nil || loan == nil {
			return err
		}
		_, err = r.books.UpdateAvailability(ctx, loan.BookID, true)
		return err
	})
	if err != nil {
		return false, err
	}
	return returned, nil
}

// FindByID gets a loan with its book and member attached
func (r *loanRepository) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := r.crudRepository.FindByID(ctx, id)
	if err != nil || loan == nil {
		return loan, err
	}
	if err := r.attach(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// FindByBookID finds the loans of one book
func (r *loanRepository) FindByBookID(ctx context.Context, bookID uint) ([]*models.Loan, error) {
	return r.findAttached(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("livre_id = ?", bookID)
	})
}

// FindByMemberID finds the loans of one member
func (r *loanRepository) FindByMemberID(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return r.findAttached(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("membre_id = ?", memberID)
	})
}

// FindAllInProgress finds loans without a return date
func (r *loanRepository) FindAllInProgress(ctx context.Context) ([]*models.Loan, error) {
	return r.findAttached(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(openLoanCondition)
	})
}

// FindAllOverdue finds open loans whose expected return date is before today
func (r *loanRepository) FindAllOverdue(ctx context.Context) ([]*models.Loan, error) {
	return r.FindOverdueAsOf(ctx, r.now().Format(DateLayout))
}

// FindOverdueAsOf finds open loans whose expected return date sorts before today.
// ISO dates compare correctly as strings.
func (r *loanRepository) FindOverdueAsOf(ctx context.Context, today string) ([]*models.Loan, error) {
	return r.findAttached(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(openLoanCondition).Where("date_retour_prevue < ?", today)
	})
}

// loanDetailRow is one row of the loans/books/members join
type loanDetailRow struct {
	ID                 uint    `gorm:"column:id"`
	BookID             uint    `gorm:"column:book_id"`
	MemberID           uint    `gorm:"column:member_id"`
	LoanDate           string  `gorm:"column:loan_date"`
	ExpectedReturnDate string  `gorm:"column:expected_return_date"`
	ActualReturnDate   *string `gorm:"column:actual_return_date"`
	BookTitle          string  `gorm:"column:book_title"`
	BookAuthor         string  `gorm:"column:book_author"`
	BookISBN           string  `gorm:"column:book_isbn"`
	BookYear           int     `gorm:"column:book_year"`
	BookPublisher      string  `gorm:"column:book_publisher"`
	BookAvailable      bool    `gorm:"column:book_available"`
	MemberLastName     string  `gorm:"column:member_last_name"`
	MemberFirstName    string  `gorm:"column:member_first_name"`
	MemberEmail        string  `gorm:"column:member_email"`
	MemberPhone        string  `gorm:"column:member_phone"`
	MemberAddress      string  `gorm:"column:member_address"`
	MemberRegistered   string  `gorm:"column:member_registered"`
}

const loanDetailsQuery = `
	SELECT e.id AS id, e.livre_id AS book_id, e.membre_id AS member_id,
		e.date_emprunt AS loan_date, e.date_retour_prevue AS expected_return_date,
		e.date_retour_reelle AS actual_return_date,
		l.titre AS book_title, l.auteur AS book_author, l.isbn AS book_isbn,
		l.annee_publication AS book_year, l.editeur AS book_publisher, l.disponible AS book_available,
		m.nom AS member_last_name, m.prenom AS member_first_name, m.email AS member_email,
		m.telephone AS member_phone, m.adresse AS member_address, m.date_inscription AS member_registered
	FROM emprunts e
	JOIN livres l ON e.livre_id = l.id
	JOIN membres m ON e.membre_id = m.id
	ORDER BY e.id
`

// FindAllWithDetails lists every loan with its book and member, in one query
func (r *loanRepository) FindAllWithDetails(ctx context.Context) ([]*models.Loan, error) {
	var rows []loanDetailRow
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		if err := tx.Raw(loanDetailsQuery).Scan(&rows).Error; err != nil {
			return fmt.Errorf("find loans with details: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loans := make([]*models.Loan, 0, len(rows))
	for _, row := range rows {
		loan := &models.Loan{
			ID:                 row.ID,
			BookID:             row.BookID,
			MemberID:           row.MemberID,
			LoanDate:           row.LoanDate,
			ExpectedReturnDate: row.ExpectedReturnDate,
			ActualReturnDate:   row.ActualReturnDate,
			Book: &models.Book{
				ID:              row.BookID,
				Title:           row.BookTitle,
				Author:          row.BookAuthor,
				ISBN:            row.BookISBN,
				PublicationYear: row.BookYear,
				Publisher:       row.BookPublisher,
				Available:       row.BookAvailable,
			},
			Member: &models.Member{
				ID:               row.MemberID,
				LastName:         row.MemberLastName,
				FirstName:        row.MemberFirstName,
				Email:            row.MemberEmail,
				Phone:            row.MemberPhone,
				Address:          row.MemberAddress,
				RegistrationDate: row.MemberRegistered,
			},
		}
		if loan.InProgress() {
			loan.ActualReturnDate = nil
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// findAttached runs a filtered scan, then resolves book and member per row
func (r *loanRepository) findAttached(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*models.Loan, error) {
	loans, err := r.findWhere(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, loan := range loans {
		if err := r.attach(ctx, loan); err != nil {
			return nil, err
		}
	}
	return loans, nil
}

func (r *loanRepository) attach(ctx context.Context, loan *models.Loan) error {
	book, err := r.books.FindByID(ctx, loan.BookID)
	if err != nil {
		return err
	}
	member, err := r.members.FindByID(ctx, loan.MemberID)
	if err != nil {
		return err
	}
	loan.Book = book
	loan.Member = member
	return nil
}
