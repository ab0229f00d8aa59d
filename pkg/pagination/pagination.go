package pagination

import (
	"reflect"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page  int
	Limit int
	Skip  int
}

// FromContext extracts pagination parameters from the echo context.
// Page is clamped to a minimum of 1. An explicit limit is clamped to
// [1, MaxLimit]; a missing or unparsable limit falls back to DefaultLimit.
// Skip is always (page-1)*limit.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	limit := DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// Meta carries the page metadata of a paginated response.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Response wraps a paginated API response.
type Response struct {
	Data       interface{} `json:"data"`
	Pagination Meta        `json:"pagination"`
}

// NewResponse wraps one page of results with its metadata. A nil slice is
// replaced by an empty one so the data field always serializes as an array.
func NewResponse(data interface{}, total, page, limit int) *Response {
	if v := reflect.ValueOf(data); v.Kind() == reflect.Slice && v.IsNil() {
		data = reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Response{
		Data: data,
		Pagination: Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page*limit < total,
			HasPrev:    page > 1,
		},
	}
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Page*p.Limit < total
}

// HasPrev returns true if there are results before the current page.
func (p Params) HasPrev() bool {
	return p.Page > 1
}
