package services_test

import (
	"context"
	"testing"

	"bibliotheque/internal/adapters/persistence/models"
	"bibliotheque/internal/core/events"
	"bibliotheque/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueScanner_RejectsBadSchedule(t *testing.T) {
	e := newEnv(t)
	_, err := services.NewOverdueScanner(e.lending, "every morning")
	assert.Error(t, err)
}

func TestOverdueScanner_ScanPublishesOverdueLoans(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	book := e.book(t, "1")
	member := e.member(t, "marie@example.com")
	loan, err := e.lending.Lend(ctx, services.LoanInput{BookID: book.ID, MemberID: member.ID, LoanDate: "2024-03-01", ExpectedReturnDate: "2024-03-10"})
	require.NoError(t, err)

	var published []*models.Loan
	e.bus.Subscribe(events.OverdueLoansListed, func(payload any) error {
		published = payload.([]*models.Loan)
		return nil
	})

	scanner, err := services.NewOverdueScanner(e.lending, "30 8 * * *")
	require.NoError(t, err)
	scanner.Start()
	scanner.Scan()
	scanner.Stop()

	require.Len(t, published, 1)
	assert.Equal(t, loan.ID, published[0].ID)
}
