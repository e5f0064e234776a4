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

// MemberService handles member business logic
type MemberService struct {
	members repositories.MemberRepository
	loans   repositories.LoanRepository
	bus     Publisher
	now     func() time.Time
}

// NewMemberService creates a new member service
func NewMemberService(members repositories.MemberRepository, loans repositories.LoanRepository, bus Publisher) *MemberService {
	return &MemberService{members: members, loans: loans, bus: bus, now: time.Now}
}

// MemberInput represents create/update member input
type MemberInput struct {
	LastName         string `json:"last_name"`
	FirstName        string `json:"first_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	RegistrationDate string `json:"registration_date"`
}

// MemberFilter selects which members List returns
type MemberFilter struct {
	Name      string
	Email     string
	LastName  string
	FirstName string
}

func (in *MemberInput) validate() error {
	if blank(in.LastName) || blank(in.FirstName) || blank(in.Email) {
		return fmt.Errorf("%w: last name, first name and email are required", domain.ErrInvalidInput)
	}
	if in.RegistrationDate != "" && !isDate(in.RegistrationDate) {
		return fmt.Errorf("%w: registration date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return nil
}

func (s *MemberService) toModel(id uint, in *MemberInput) *models.Member {
	registered := in.RegistrationDate
	if registered == "" {
		registered = s.now().Format(repositories.DateLayout)
	}
	return &models.Member{
		ID:               id,
		LastName:         strings.TrimSpace(in.LastName),
		FirstName:        strings.TrimSpace(in.FirstName),
		Email:            strings.TrimSpace(in.Email),
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		RegistrationDate: registered,
	}
}

// List lists members matching the filter
func (s *MemberService) List(ctx context.Context, filter MemberFilter) ([]*models.Member, error) {
	switch {
	case filter.Email != "":
		member, err := s.members.FindByEmail(ctx, filter.Email)
		if err != nil || member == nil {
			return []*models.Member{}, err
		}
		return []*models.Member{member}, nil
	case filter.LastName != "" || filter.FirstName != "":
		return s.members.FindByFullName(ctx, filter.LastName, filter.FirstName)
	case filter.Name != "":
		return s.members.FindByName(ctx, filter.Name)
	default:
		return s.members.FindAll(ctx)
	}
}

// Get gets a member by ID
func (s *MemberService) Get(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	return member, nil
}

// Create registers a member
func (s *MemberService) Create(ctx context.Context, input MemberInput) (*models.Member, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	member, err := s.members.Insert(ctx, s.toModel(0, &input))
	if err != nil {
		return nil, err
	}

	publish(s.bus, events.MemberModified, member)
	return member, nil
}

// Update overwrites a member with the input values
func (s *MemberService) Update(ctx context.Context, id uint, input MemberInput) (*models.Member, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	member := s.toModel(id, &input)
	if input.RegistrationDate == "" {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		member.RegistrationDate = current.RegistrationDate
	}

	ok, err := s.members.Update(ctx, member)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrMemberNotFound
	}

	publish(s.bus, events.MemberModified, member)
	return member, nil
}

// Delete removes a member that has no loan history
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	loans, err := s.loans.FindByMemberID(ctx, id)
	if err != nil {
		return err
	}
	if len(loans) > 0 {
		return domain.ErrMemberHasLoans
	}

	ok, err := s.members.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrMemberNotFound
	}

	publish(s.bus, events.MemberModified, id)
	return nil
}
