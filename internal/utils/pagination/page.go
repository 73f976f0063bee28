package pagination

import (
	"math"
	"strconv"
)

// maxOffset bounds (page-1)*perPage well inside every SQL dialect's OFFSET range.
const maxOffset = math.MaxInt32

// Params is a normalised 1-based page request.
type Params struct {
	Page    int
	PerPage int
}

// Meta is the pagination block of every list response.
type Meta struct {
	Total       int64 `json:"total"`
	Count       int   `json:"count"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// Page is one slice of a larger ordered result set.
type Page[T any] struct {
	Items []T
	Total int64
	Params
}

// New clamps page to >= 1 and perPage to [1, maxPerPage], using def when perPage <= 0.
// Page is capped so the offset never exceeds maxOffset.
func New(page, perPage, def, maxPerPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = def
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	if perPage < 1 {
		perPage = 1
	}
	if maxPage := maxOffset/perPage + 1; page > maxPage {
		page = maxPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Parse reads raw query values; unparsable input falls back to the defaults.
func Parse(page, perPage string, def, maxPerPage int) Params {
	p, err := strconv.Atoi(page)
	if err != nil {
		p = 1
	}
	pp, err := strconv.Atoi(perPage)
	if err != nil {
		pp = def
	}
	return New(p, pp, def, maxPerPage)
}

// Offset is the number of rows to skip for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// LastPage is the 1-based number of the final page; an empty set still has page 1.
func (p Params) LastPage(total int64) int {
	if total <= 0 || p.PerPage <= 0 {
		return 1
	}
	return int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Meta builds the response block for a page holding count items.
func (p Params) Meta(total int64, count int) Meta {
	return Meta{
		Total:       total,
		Count:       count,
		PerPage:     p.PerPage,
		CurrentPage: p.Page,
		LastPage:    p.LastPage(total),
	}
}

// Meta builds the response block for the page.
func (pg Page[T]) Meta() Meta {
	return pg.Params.Meta(pg.Total, len(pg.Items))
}
