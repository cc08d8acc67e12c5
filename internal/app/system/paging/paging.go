// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

const (
	// DefaultLimit is the page size used when the caller gives none.
	DefaultLimit = 4
	// MaxLimit caps the page size a caller may ask for.
	MaxLimit = 100
	// MaxPage caps the page number so (Page-1)*Limit always fits an int64.
	MaxPage = 1<<31 - 1
)

// Params is a normalized page request: 1 <= Page <= MaxPage and
// 1 <= Limit <= MaxLimit.
type Params struct {
	Page  int
	Limit int
}

// Skip returns the number of rows before this page.
func (p Params) Skip() int64 {
	page, limit := p.Page, p.Limit
	if page < 1 || limit < 1 {
		return 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return int64(page-1) * int64(limit)
}

// Normalize clamps page and limit. Zero values mean "not given" and take
// the defaults; negative values are clamped to 1.
func Normalize(page, limit, defaultLimit int) Params {
	if defaultLimit < 1 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case limit == 0:
		limit = defaultLimit
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// ParseInt reads a decimal integer, returning 0 ("not given") for empty or
// malformed input.
func ParseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Parse reads the "page" and "limit" query parameters.
func Parse(r *http.Request, defaultLimit int) Params {
	return Normalize(ParseInt(query.Get(r, "page")), ParseInt(query.Get(r, "limit")), defaultLimit)
}

// TotalPages returns ceil(total/limit); 0 when there are no rows.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
