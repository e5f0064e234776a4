package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bibliotheque/internal/adapters/persistence/models"
	"bibliotheque/internal/adapters/persistence/repositories"
	"bibliotheque/internal/core/domain"
	"bibliotheque/internal/core/events"
)

// Loan views accepted by List
const (
	ViewAll        = ""
	ViewDetails    = "details"
	ViewInProgress = "in-progress"
	ViewOverdue    = "overdue"
)

// LendingService handles loan business logic
type LendingService struct {
	loans   repositories.LoanRepository
	books   repositories.BookRepository
	members repositories.MemberRepository
	bus     Publisher
	now     func() time.Time
}

// LendingOption configures a lending service
type LendingOption func(*LendingService)

// WithToday sets the clock used for default loan and return dates
func WithToday(now func() time.Time) LendingOption {
	return func(s *LendingService) {
		s.now = now
	}
}

// NewLendingService creates a new lending service
func NewLendingService(loans repositories.LoanRepository, books repositories.BookRepository, members repositories.MemberRepository, bus Publisher, opts ...LendingOption) *LendingService {
	s := &LendingService{
		loans:   loans,
		books:   books,
		members: members,
		bus:     bus,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoanInput represents create/update loan input
type LoanInput struct {
	BookID             uint    `json:"book_id"`
	MemberID           uint    `json:"member_id"`
	LoanDate           string  `json:"loan_date"`
	ExpectedReturnDate string  `json:"expected_return_date"`
	ActualReturnDate   *string `json:"actual_return_date"`
}

// LoanFilter selects which loans List returns
type LoanFilter struct {
	View     string
	BookID   uint
	MemberID uint
	Query    string
}

func (s *LendingService) today() string {
	return s.now().Format(repositories.DateLayout)
}

// validate checks the input and returns the referenced book
func (s *LendingService) validate(ctx context.Context, in *LoanInput) (*models.Book, error) {
	if in.BookID == 0 || in.MemberID == 0 {
		return nil, fmt.Errorf("%w: book and member are required", domain.ErrInvalidInput)
	}
	if !isDate(in.LoanDate) || !isDate(in.ExpectedReturnDate) {
		return nil, fmt.Errorf("%w: loan and expected return dates must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	if in.ExpectedReturnDate < in.LoanDate {
		return nil, fmt.Errorf("%w: expected return date is before the loan date", domain.ErrInvalidInput)
	}
	if in.ActualReturnDate != nil && *in.ActualReturnDate != "" && !isDate(*in.ActualReturnDate) {
		return nil, fmt.Errorf("%w: return date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	book, err := s.books.FindByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrBookNotFound
	}
	member, err := s.members.FindByID(ctx, in.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	return book, nil
}

// List lists loans for a view, or filtered by book, member or search text
func (s *LendingService) List(ctx context.Context, filter LoanFilter) ([]*models.Loan, error) {
	switch {
	case filter.Query != "":
		return s.Search(ctx, filter.Query)
	case filter.BookID != 0:
		return s.loans.FindByBookID(ctx, filter.BookID)
	case filter.MemberID != 0:
		return s.loans.FindByMemberID(ctx, filter.MemberID)
	}

	switch filter.View {
	case ViewAll, ViewDetails:
		return s.loans.FindAllWithDetails(ctx)
	case ViewInProgress:
		return s.loans.FindAllInProgress(ctx)
	case ViewOverdue:
		loans, err := s.loans.FindAllOverdue(ctx)
		if err != nil {
			return nil, err
		}
		publish(s.bus, events.OverdueLoansListed, loans)
		return loans, nil
	default:
		return nil, fmt.Errorf("%w: unknown view %q", domain.ErrInvalidInput, filter.View)
	}
}

// Get gets a loan with its book and member
func (s *LendingService) Get(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}
	return loan, nil
}

// Lend records a new loan of an available book
func (s *LendingService) Lend(ctx context.Context, input LoanInput) (*models.Loan, error) {
	if input.LoanDate == "" {
		input.LoanDate = s.today()
	}
	book, err := s.validate(ctx, &input)
	if err != nil {
		return nil, err
	}
	if !book.Available {
		return nil, domain.ErrBookNotAvailable
	}

	loan, err := s.loans.Insert(ctx, &models.Loan{
		BookID:             input.BookID,
		MemberID:           input.MemberID,
		LoanDate:           input.LoanDate,
		ExpectedReturnDate: input.ExpectedReturnDate,
	})
	if err != nil {
		return nil, err
	}

	s.publishChange(loan)
	return loan, nil
}

// Update overwrites every stored field of a loan. Book availability is not
// recomputed; callers correct it through the book service.
func (s *LendingService) Update(ctx context.Context, id uint, input LoanInput) (*models.Loan, error) {
	if _, err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	loan := &models.Loan{
		ID:                 id,
		BookID:             input.BookID,
		MemberID:           input.MemberID,
		LoanDate:           input.LoanDate,
		ExpectedReturnDate: input.ExpectedReturnDate,
		ActualReturnDate:   input.ActualReturnDate,
	}
	if loan.InProgress() {
		loan.ActualReturnDate = nil
	}

	ok, err := s.loans.Update(ctx, loan)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrLoanNotFound
	}

	s.publishChange(loan)
	return loan, nil
}

// Return closes an open loan. An empty returnDate means today.
func (s *LendingService) Return(ctx context.Context, id uint, returnDate string) (*models.Loan, error) {
	if returnDate == "" {
		returnDate = s.today()
	}
	if !isDate(returnDate) {
		return nil, fmt.Errorf("%w: return date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !loan.InProgress() {
		return nil, domain.ErrLoanAlreadyReturned
	}

	ok, err := s.loans.ReturnLoan(ctx, id, returnDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrLoanNotFound
	}

	loan.ActualReturnDate = &returnDate
	if loan.Book != nil {
		loan.Book.Available = true
	}
	s.publishChange(loan)
	return loan, nil
}

// Delete removes a loan; an open loan frees its book
func (s *LendingService) Delete(ctx context.Context, id uint) error {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.loans.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrLoanNotFound
	}

	s.publishChange(loan)
	return nil
}

// Search matches text, case-insensitively, against the book title, the
// member full name and the three dates of each loan
func (s *LendingService) Search(ctx context.Context, text string) ([]*models.Loan, error) {
	loans, err := s.loans.FindAllWithDetails(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return loans, nil
	}

	matched := make([]*models.Loan, 0, len(loans))
	for _, loan := range loans {
		if loanMatches(loan, needle) {
			matched = append(matched, loan)
		}
	}
	return matched, nil
}

// ActivateView announces that the loan view was opened
func (s *LendingService) ActivateView() {
	publish(s.bus, events.LoanViewActivated, nil)
}

// ReportOverdue publishes the loans overdue as of today and returns them
func (s *LendingService) ReportOverdue(ctx context.Context) ([]*models.Loan, error) {
	loans, err := s.loans.FindOverdueAsOf(ctx, s.today())
	if err != nil {
		return nil, err
	}
	publish(s.bus, events.OverdueLoansListed, loans)
	return loans, nil
}

func (s *LendingService) publishChange(loan *models.Loan) {
	publish(s.bus, events.BookModified, loan.BookID)
	publish(s.bus, events.LoanModified, loan)
}

func loanMatches(loan *models.Loan, needle string) bool {
	fields := []string{loan.LoanDate, loan.ExpectedReturnDate}
	if loan.ActualReturnDate != nil {
		fields = append(fields, *loan.ActualReturnDate)
	}
	if loan.Book != nil {
		fields = append(fields, loan.Book.Title)
	}
	if loan.Member != nil {
		fields = append(fields, loan.Member.FullName())
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
