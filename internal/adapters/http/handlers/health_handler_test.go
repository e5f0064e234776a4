package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bibliotheque/internal/adapters/http/handlers"
	"bibliotheque/internal/adapters/persistence/connpool"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct{ err error }

func (s stubStore) HealthCheck(context.Context) error { return s.err }

type stubPool struct{}

func (stubPool) Stats() connpool.Stats { return connpool.Stats{Capacity: 2, Open: 1} }

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func getHealth(t *testing.T, store handlers.StoreChecker) (int, healthBody) {
	t.Helper()
	app := fiber.New()
	app.Get("/health", handlers.NewHealthHandler(store, stubPool{}, "test").HealthCheck)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body healthBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealthCheck_Healthy(t *testing.T) {
	code, body := getHealth(t, stubStore{})

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
}

func TestHealthCheck_StoreDown(t *testing.T) {
	code, body := getHealth(t, stubStore{err: errors.New("connection refused")})

	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unhealthy", body.Checks["database"])
	assert.Equal(t, "healthy", body.Checks["api"])
}
