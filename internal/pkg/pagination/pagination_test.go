package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Slice(items, &Params{Page: 1, Limit: 2, Offset: 0}))
	assert.Equal(t, []int{5}, Slice(items, &Params{Page: 3, Limit: 2, Offset: 4}))
	assert.Empty(t, Slice(items, &Params{Page: 4, Limit: 2, Offset: 6}))
	assert.NotNil(t, Slice([]int{}, &Params{Page: 1, Limit: 20}))
}

func TestPaginate(t *testing.T) {
	resp := Paginate([]string{"a", "b", "c"}, &Params{Page: 2, Limit: 2, Offset: 2})

	assert.Equal(t, []string{"c"}, resp.Data)
	assert.Equal(t, &Meta{Page: 2, Limit: 2, Total: 3, TotalPages: 2, HasNext: false, HasPrev: true}, resp.Meta)
}

func TestGetParams(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{"?page=3&limit=10", Params{Page: 3, Limit: 10, Offset: 20}},
		{"?page=0&limit=-4", Params{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{"?page=abc&limit=500", Params{Page: 1, Limit: MaxLimit, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got *Params
			app.Get("/", func(c *fiber.Ctx) error {
				got = GetParams(c)
				return nil
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestGetMeta(t *testing.T) {
	assert.Equal(t, 0, GetMeta(&Params{Page: 1, Limit: 20}, 0).TotalPages)
	assert.Equal(t, 1, GetMeta(&Params{Page: 1, Limit: 20}, 20).TotalPages)

	meta := GetMeta(&Params{Page: 2, Limit: 20}, 41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}
