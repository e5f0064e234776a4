package domain_test

import (
	"errors"
	"testing"

	"bibliotheque/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorsShareSentinel(t *testing.T) {
	for _, err := range []error{domain.ErrBookNotFound, domain.ErrMemberNotFound, domain.ErrLoanNotFound} {
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.NotErrorIs(t, domain.ErrBookNotFound, domain.ErrLoanNotFound)
}

func TestPersistenceError(t *testing.T) {
	err := &domain.PersistenceError{Op: "insert", Entity: "livres", Err: domain.ErrNoGeneratedID}

	assert.EqualError(t, err, "insert livres: no generated identifier")
	assert.ErrorIs(t, err, domain.ErrNoGeneratedID)

	var pe *domain.PersistenceError
	assert.True(t, errors.As(err, &pe))
}

func TestStoreUnavailableError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &domain.StoreUnavailableError{Err: cause}

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
