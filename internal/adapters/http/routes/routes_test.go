package routes_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bibliotheque/internal/adapters/http/middleware"
	"bibliotheque/internal/adapters/http/routes"
	"bibliotheque/internal/config"
	"bibliotheque/internal/core/events"
	"bibliotheque/internal/storetest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := storetest.Open(t)
	cfg := &config.Config{AppMode: "dev", Database: config.DatabaseConfig{Driver: config.DriverSQLite}}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	routes.Setup(app, routes.NewServices(db, events.NewBus()), db, cfg)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func decodeID(t *testing.T, env envelope) float64 {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data["id"].(float64)
}

func TestLendingFlowOverHTTP(t *testing.T) {
	app := newApp(t)

	status, env := call(t, app, http.MethodPost, "/api/v1/books",
		`{"title":"Dune","author":"Frank Herbert","isbn":"9780441013593","publication_year":1965}`)
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	bookID := decodeID(t, env)

	status, env = call(t, app, http.MethodPost, "/api/v1/members",
		`{"last_name":"Dupont","first_name":"Marie","email":"marie@example.com"}`)
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	memberID := decodeID(t, env)

	loanBody := `{"book_id":` + jsonNumber(bookID) + `,"member_id":` + jsonNumber(memberID) + `,"loan_date":"2024-03-01","expected_return_date":"2024-03-15"}`
	status, env = call(t, app, http.MethodPost, "/api/v1/loans", loanBody)
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	loanID := decodeID(t, env)

	status, env = call(t, app, http.MethodPost, "/api/v1/loans", loanBody)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Book is not available", env.Error)

	status, env = call(t, app, http.MethodGet, "/api/v1/books?available=true", "")
	require.Equal(t, fiber.StatusOK, status)
	var page struct {
		Data []map[string]any `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 0, page.Meta.Total)

	loanPath := "/api/v1/loans/" + jsonNumber(loanID)
	status, env = call(t, app, http.MethodPost, loanPath+"/return", `{"return_date":"2024-03-10"}`)
	require.Equal(t, fiber.StatusOK, status, env.Error)

	status, _ = call(t, app, http.MethodPost, loanPath+"/return", "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = call(t, app, http.MethodGet, "/api/v1/loans?view=details&q=marie", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "2024-03-10", page.Data[0]["actual_return_date"])

	status, _ = call(t, app, http.MethodDelete, "/api/v1/books/"+jsonNumber(bookID), "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, http.MethodDelete, loanPath, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, http.MethodDelete, "/api/v1/books/"+jsonNumber(bookID), "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestHTTPErrors(t *testing.T) {
	app := newApp(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/v1/books/abc", "", fiber.StatusBadRequest},
		{http.MethodGet, "/api/v1/books/42", "", fiber.StatusNotFound},
		{http.MethodGet, "/api/v1/members/42", "", fiber.StatusNotFound},
		{http.MethodGet, "/api/v1/loans/42", "", fiber.StatusNotFound},
		{http.MethodPost, "/api/v1/books", `{"title":"Dune"}`, fiber.StatusBadRequest},
		{http.MethodPost, "/api/v1/books", `not json`, fiber.StatusBadRequest},
		{http.MethodPatch, "/api/v1/books/42/availability", `{}`, fiber.StatusBadRequest},
		{http.MethodPatch, "/api/v1/books/42/availability", `{"available":true}`, fiber.StatusNotFound},
		{http.MethodGet, "/api/v1/loans?view=archived", "", fiber.StatusBadRequest},
		{http.MethodGet, "/api/v1/loans?book_id=x", "", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, env := call(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status)
			assert.False(t, env.Success)
		})
	}
}

func TestHealth(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
		Pool   struct {
			Capacity int `json:"capacity"`
			InUse    int `json:"in_use"`
		} `json:"pool"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
	assert.Equal(t, 4, body.Pool.Capacity)
	assert.Equal(t, 0, body.Pool.InUse)

	root, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer root.Body.Close()
	assert.Equal(t, "public, max-age=3600", root.Header.Get("Cache-Control"))
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(int64(f))
	return string(b)
}
