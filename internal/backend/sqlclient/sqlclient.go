// Package sqlclient implements the Backend Client directly on a SQL database
// through GORM. It serves BACKEND=postgres and BACKEND=sqlite, and it is the
// storage behind the dev backend's REST surface.
package sqlclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"promptdeck/internal/backend"
	"promptdeck/internal/models"
	"promptdeck/internal/pagination"
)

var errFilterRequired = &backend.Error{
	Status:  http.StatusBadRequest,
	Code:    backend.CodeBadRequest,
	Message: "a filter is required for this operation",
}

// Client runs backend operations against a *gorm.DB.
type Client struct {
	db     *gorm.DB
	tables map[string]func() any
}

var _ backend.Client = (*Client)(nil)

// New creates a Client exposing the categories and prompts tables.
func New(db *gorm.DB) *Client {
	return &Client{
		db: db,
		tables: map[string]func() any{
			models.TableCategories: func() any { return &models.Category{} },
			models.TablePrompts:    func() any { return &models.Prompt{} },
		},
	}
}

// Tables lists the exposed table names in sorted order.
func (c *Client) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRow returns an empty model for table, suitable for decoding a payload.
func (c *Client) NewRow(table string) (any, error) {
	factory, ok := c.tables[table]
	if !ok {
		return nil, backend.UndefinedTable(table)
	}
	return factory(), nil
}

// Select decodes rows matching q into dest.
func (c *Client) Select(ctx context.Context, q backend.Query, dest any) error {
	if _, err := c.NewRow(q.Table); err != nil {
		return err
	}

	tx := c.db.WithContext(ctx).Table(q.Table)
	if cols := projection(q.Columns); len(cols) > 0 {
		tx = tx.Select(cols)
	}
	if len(q.Filters) > 0 {
		tx = tx.Clauses(where(q.Filters))
	}
	for _, o := range q.Order {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Descending})
	}
	tx = tx.Scopes(pagination.Paginate(pagination.Range{Limit: q.Limit, Offset: q.Offset}))

	if err := tx.Find(dest).Error; err != nil {
		return translate(q.Table, err)
	}
	return nil
}

// Insert stores row in table and decodes the persisted row into dest.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	model, err := c.NewRow(table)
	if err != nil {
		return err
	}
	if err := remarshal(row, model); err != nil {
		return &backend.Error{Status: http.StatusBadRequest, Code: backend.CodeBadRequest, Message: err.Error()}
	}

	if err := c.db.WithContext(ctx).Create(model).Error; err != nil {
		return translate(table, err)
	}
	return remarshal(model, dest)
}

// Update applies patch to the single row matching filters.
func (c *Client) Update(ctx context.Context, table string, patch map[string]any, filters []backend.Filter, dest any) error {
	model, err := c.NewRow(table)
	if err != nil {
		return err
	}
	if len(filters) == 0 {
		return errFilterRequired
	}

	sch, err := c.schema(model)
	if err != nil {
		return translate(table, err)
	}
	if err := checkPatch(table, sch, patch); err != nil {
		return err
	}
	pk := sch.PrioritizedPrimaryField.DBName

	// Matched rows are resolved by primary key first so the re-read still
	// finds them when the patch changes a filtered column.
	fresh, _ := c.NewRow(table)
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(model).Clauses(where(filters)).Pluck(pk, &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return gorm.ErrRecordNotFound
		}
		if len(patch) > 0 {
			if err := tx.Model(model).Where(clause.IN{Column: clause.Column{Name: pk}, Values: keys(ids)}).Updates(patch).Error; err != nil {
				return err
			}
		}
		return tx.Where(clause.Eq{Column: clause.Column{Name: pk}, Value: ids[0]}).Take(fresh).Error
	})
	if err != nil {
		return translate(table, err)
	}
	return remarshal(fresh, dest)
}

func (c *Client) schema(model any) (*schema.Schema, error) {
	stmt := &gorm.Statement{DB: c.db}
	if err := stmt.Parse(model); err != nil {
		return nil, err
	}
	return stmt.Schema, nil
}

// checkPatch rejects columns the table lacks and columns the backend owns.
func checkPatch(table string, sch *schema.Schema, patch map[string]any) error {
	cols := make([]string, 0, len(patch))
	for col := range patch {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		f, ok := sch.FieldsByDBName[col]
		if !ok {
			return backend.UnknownColumn(table, col)
		}
		if f.PrimaryKey || f.AutoCreateTime != 0 {
			return &backend.Error{
				Status:  http.StatusBadRequest,
				Code:    backend.CodeBadRequest,
				Message: fmt.Sprintf("column '%s' of '%s' cannot be updated", col, table),
			}
		}
	}
	return nil
}

func keys(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// Delete removes the rows matching filters.
func (c *Client) Delete(ctx context.Context, table string, filters []backend.Filter) error {
	model, err := c.NewRow(table)
	if err != nil {
		return err
	}
	if len(filters) == 0 {
		return errFilterRequired
	}
	if err := c.db.WithContext(ctx).Clauses(where(filters)).Delete(model).Error; err != nil {
		return translate(table, err)
	}
	return nil
}

func projection(cols []string) []string {
	if len(cols) == 1 && cols[0] == "*" {
		return nil
	}
	return cols
}

func where(filters []backend.Filter) clause.Where {
	exprs := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		exprs = append(exprs, clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	return clause.Where{Exprs: exprs}
}

// translate maps GORM failures onto the backend error shape.
func translate(table string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return backend.NoRows(table)
	case errors.Is(err, gorm.ErrMissingWhereClause):
		return errFilterRequired
	}
	return &backend.Error{Status: http.StatusInternalServerError, Code: backend.CodeInternal, Message: err.Error()}
}

// remarshal copies src into dst through their JSON representations, so rows
// keep the column names the wire format uses.
func remarshal(src, dst any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encoding row: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decoding row: %w", err)
	}
	return nil
}
