// Package backend defines the generic table API the prompt library is built
// on. It mirrors what a hosted PostgREST/Supabase project offers: select with
// projection and ordering, insert returning the row, single-row update and
// delete keyed by equality filters.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Error codes shared by every implementation. They follow PostgREST so the
// REST client can pass server errors through untouched.
const (
	CodeNoRows         = "PGRST116"
	CodeUnknownColumn  = "PGRST204"
	CodeUndefinedTable = "42P01"
	CodeNotNull        = "23502"
	CodeBadRequest     = "PGRST100"
	CodeUnavailable    = "PGRST000"
	CodeInternal       = "XX000"
)

// Order sorts a select by one column.
type Order struct {
	Column     string
	Descending bool
}

// Asc orders by column ascending.
func Asc(column string) Order { return Order{Column: column} }

// Filter is an equality condition on a column.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter { return Filter{Column: column, Value: value} }

// Query describes a select.
type Query struct {
	Table   string
	Columns []string // empty selects every column
	Order   []Order
	Filters []Filter
	Limit   int // zero means unlimited
	Offset  int
}

// Client is the Backend Client collaborator. Every call is a single backend
// round trip; failures come back as *Error where the backend reported one.
type Client interface {
	// Select decodes all matching rows into dest, a pointer to a slice.
	Select(ctx context.Context, q Query, dest any) error
	// Insert stores row and decodes the persisted row, including generated
	// columns, into dest.
	Insert(ctx context.Context, table string, row any, dest any) error
	// Update applies patch to exactly one row matching filters and decodes the
	// updated row into dest. Zero matching rows is a CodeNoRows error.
	Update(ctx context.Context, table string, patch map[string]any, filters []Filter, dest any) error
	// Delete removes rows matching filters.
	Delete(ctx context.Context, table string, filters []Filter) error
}

// Error is a backend-reported failure in PostgREST's error shape.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// NoRows reports a single-row operation that matched nothing.
func NoRows(table string) *Error {
	return &Error{
		Status:  http.StatusNotAcceptable,
		Code:    CodeNoRows,
		Message: "JSON object requested, multiple (or no) rows returned",
		Details: fmt.Sprintf("The result contains 0 rows in %s", table),
	}
}

// UnknownColumn reports a payload column the table does not have.
func UnknownColumn(table, column string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeUnknownColumn,
		Message: fmt.Sprintf("Could not find the '%s' column of '%s' in the schema cache", column, table),
	}
}

// UndefinedTable reports a table the backend does not expose.
func UndefinedTable(table string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    CodeUndefinedTable,
		Message: fmt.Sprintf("relation %q does not exist", table),
	}
}

// WithTimeout bounds every call on c by d. A zero d returns c unchanged.
func WithTimeout(c Client, d time.Duration) Client {
	if d <= 0 {
		return c
	}
	return &timeoutClient{next: c, timeout: d}
}

type timeoutClient struct {
	next    Client
	timeout time.Duration
}

func (t *timeoutClient) Select(ctx context.Context, q Query, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Select(ctx, q, dest)
}

func (t *timeoutClient) Insert(ctx context.Context, table string, row any, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Insert(ctx, table, row, dest)
}

func (t *timeoutClient) Update(ctx context.Context, table string, patch map[string]any, filters []Filter, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Update(ctx, table, patch, filters, dest)
}

func (t *timeoutClient) Delete(ctx context.Context, table string, filters []Filter) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Delete(ctx, table, filters)
}
