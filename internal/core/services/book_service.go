package services

import (
	"context"
	"fmt"
	"strings"

	"bibliotheque/internal/adapters/persistence/models"
	"bibliotheque/internal/adapters/persistence/repositories"
	"bibliotheque/internal/core/domain"
	"bibliotheque/internal/core/events"
)

// BookService handles catalog business logic
type BookService struct {
	books repositories.BookRepository
	loans repositories.LoanRepository
	bus   Publisher
}

// NewBookService creates a new book service
func NewBookService(books repositories.BookRepository, loans repositories.LoanRepository, bus Publisher) *BookService {
	return &BookService{books: books, loans: loans, bus: bus}
}

// BookInput represents create/update book input
type BookInput struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	PublicationYear int    `json:"publication_year"`
	Publisher       string `json:"publisher"`
	Available       *bool  `json:"available"`
}

// BookFilter selects which books List returns; the first non-empty field wins
type BookFilter struct {
	Title         string
	Author        string
	ISBN          string
	AvailableOnly bool
}

func (in *BookInput) validate() error {
	if blank(in.Title) || blank(in.Author) || blank(in.ISBN) {
		return fmt.Errorf("%w: title, author and isbn are required", domain.ErrInvalidInput)
	}
	if in.PublicationYear < 0 {
		return fmt.Errorf("%w: publication year must be a positive number", domain.ErrInvalidInput)
	}
	return nil
}

func (in *BookInput) toModel(id uint) *models.Book {
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	return &models.Book{
		ID:              id,
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		ISBN:            strings.TrimSpace(in.ISBN),
		PublicationYear: in.PublicationYear,
		Publisher:       strings.TrimSpace(in.Publisher),
		Available:       available,
	}
}

// List lists books matching the filter
func (s *BookService) List(ctx context.Context, filter BookFilter) ([]*models.Book, error) {
	switch {
	case filter.ISBN != "":
		book, err := s.books.FindByISBN(ctx, filter.ISBN)
		if err != nil || book == nil {
			return []*models.Book{}, err
		}
		return []*models.Book{book}, nil
	case filter.Title != "":
		return s.books.FindByTitle(ctx, filter.Title)
	case filter.Author != "":
		return s.books.FindByAuthor(ctx, filter.Author)
	case filter.AvailableOnly:
		return s.books.FindAllAvailable(ctx)
	default:
		return s.books.FindAll(ctx)
	}
}

// Get gets a book by ID
func (s *BookService) Get(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrBookNotFound
	}
	return book, nil
}

// Create adds a book to the catalog
func (s *BookService) Create(ctx context.Context, input BookInput) (*models.Book, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	book, err := s.books.Insert(ctx, input.toModel(0))
	if err != nil {
		return nil, err
	}

	publish(s.bus, events.BookModified, book)
	return book, nil
}

// Update overwrites a book with the input values
func (s *BookService) Update(ctx context.Context, id uint, input BookInput) (*models.Book, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	book := input.toModel(id)
	if input.Available == nil {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		book.Available = current.Available
	}

	ok, err := s.books.Update(ctx, book)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrBookNotFound
	}

	publish(s.bus, events.BookModified, book)
	return book, nil
}

// SetAvailability corrects the availability flag by hand
func (s *BookService) SetAvailability(ctx context.Context, id uint, available bool) error {
	ok, err := s.books.UpdateAvailability(ctx, id, available)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrBookNotFound
	}

	publish(s.bus, events.BookModified, id)
	return nil
}

// Delete removes a book that has no loan history
func (s *BookService) Delete(ctx context.Context, id uint) error {
	loans, err := s.loans.FindByBookID(ctx, id)
	if err != nil {
		return err
	}
	if len(loans) > 0 {
		return domain.ErrBookHasLoans
	}

	ok, err := s.books.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrBookNotFound
	}

	publish(s.bus, events.BookModified, id)
	return nil
}
