package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultLimit applies when ?limit is absent or not positive
	DefaultLimit = 20
	// MaxLimit caps ?limit so a single listing stays bounded
	MaxLimit = 100
)

// Params is the window a listing endpoint was asked for.
// Offset is derived from Page and Limit and never read from the query.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta describes where a page sits in the full result set
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetParams reads ?page and ?limit. Garbage falls back to page 1 and
// DefaultLimit rather than failing the request.
func GetParams(c *fiber.Ctx) *Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	switch {
	case err != nil || limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return &Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// GetMeta computes page counts for a result set of total rows
func GetMeta(params *Params, total int64) *Meta {
	limit := int64(params.Limit)
	pages := int((total + limit - 1) / limit)

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    params.Page < pages,
		HasPrev:    params.Page > 1,
	}
}

// Slice returns the page of items selected by params
func Slice[T any](items []T, params *Params) []T {
	if params.Offset >= len(items) {
		return []T{}
	}
	end := min(params.Offset+params.Limit, len(items))
	return items[params.Offset:end]
}

// Paginate pages an in-memory result set
func Paginate[T any](items []T, params *Params) *Response {
	return NewResponse(Slice(items, params), params, int64(len(items)))
}

// Response is the envelope of every paged listing: the rows plus Meta
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta"`
}

func NewResponse(data any, params *Params, total int64) *Response {
	return &Response{Data: data, Meta: GetMeta(params, total)}
}
