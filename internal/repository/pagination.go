package repository

import "strings"

// Page carries pagination and sorting for list queries. Handlers normalise
// the values; repositories only accept SortBy values from their own
// whitelist and fall back to the primary key otherwise.
type Page struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// orderBy builds an ORDER BY clause from the whitelist of sortable columns.
// The primary key is appended as a tie breaker so pages are stable.
func orderBy(p Page, allowed map[string]string, pk string) string {
	col, ok := allowed[strings.ToLower(p.SortBy)]
	if !ok {
		col = pk
	}
	dir := "ASC"
	if strings.EqualFold(p.Order, "desc") {
		dir = "DESC"
	}
	if col == pk {
		return " ORDER BY " + pk + " " + dir
	}
	return " ORDER BY " + col + " " + dir + ", " + pk + " ASC"
}
