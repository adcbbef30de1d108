package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptdeck/internal/backend"
	"promptdeck/internal/validator"
)

// TableStore is the storage the table endpoints are served from.
type TableStore interface {
	backend.Client
	// NewRow returns an empty row for table, or an undefined-table error.
	NewRow(table string) (any, error)
	// Tables lists the exposed tables.
	Tables() []string
}

// TableHandler serves a PostgREST-compatible subset over TableStore:
// projection, ordering, equality filters, and single-object responses.
type TableHandler struct {
	store TableStore
}

// NewTableHandler creates a new TableHandler
func NewTableHandler(store TableStore) *TableHandler {
	return &TableHandler{store: store}
}

// TablesResponse lists the tables the API exposes.
type TablesResponse struct {
	Tables []string `json:"tables" example:"categories,prompts"`
}

// ListTables returns the exposed tables
// @Summary     List tables
// @Description List the tables exposed under /rest/v1
// @Tags        tables
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} TablesResponse
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      / [get]
func (h *TableHandler) ListTables(c *gin.Context) {
	c.JSON(http.StatusOK, TablesResponse{Tables: h.store.Tables()})
}

// Select reads rows from a table
// @Summary     Select rows
// @Description Read rows with optional projection, ordering, and eq filters
// @Tags        tables
// @Produce     json
// @Security    ApiKeyAuth
// @Param       table  path  string true  "Table name"
// @Param       select query string false "Comma separated columns" default(*)
// @Param       order  query string false "Ordering, e.g. name.asc"
// @Param       limit  query int    false "Maximum rows"
// @Param       offset query int    false "Rows to skip"
// @Success     200 {array}  object
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     404 {object} ErrorResponse "Unknown table"
// @Failure     406 {object} ErrorResponse "Single object requested, zero or many rows matched"
// @Router      /{table} [get]
func (h *TableHandler) Select(c *gin.Context) {
	q := backend.Query{Table: c.Param("table")}

	var err error
	if q.Columns, err = parseSelect(c.Query("select")); err != nil {
		respondWithError(c, err)
		return
	}
	if q.Order, err = parseOrder(c.Query("order")); err != nil {
		respondWithError(c, err)
		return
	}
	if q.Filters, err = parseFilters(c); err != nil {
		respondWithError(c, err)
		return
	}
	rng, err := parseRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	q.Limit, q.Offset = rng.Limit, rng.Offset

	rows := []map[string]any{}
	if err := h.store.Select(c.Request.Context(), q, &rows); err != nil {
		respondWithError(c, err)
		return
	}

	if wantsObject(c) {
		if len(rows) != 1 {
			respondWithError(c, backend.NoRows(q.Table))
			return
		}
		c.JSON(http.StatusOK, rows[0])
		return
	}
	if !rng.Empty() {
		c.Header("Content-Range", rng.ContentRange(len(rows)))
	}
	c.JSON(http.StatusOK, rows)
}

// Insert creates a row
// @Summary     Insert a row
// @Description Insert one row. With Prefer: return=representation the stored row is returned.
// @Tags        tables
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       table   path   string true  "Table name"
// @Param       Prefer  header string false "return=representation"
// @Param       request body   object true  "Row"
// @Success     201 {object} object
// @Failure     400 {object} ErrorResponse "Missing or invalid columns"
// @Failure     404 {object} ErrorResponse "Unknown table"
// @Router      /{table} [post]
func (h *TableHandler) Insert(c *gin.Context) {
	table := c.Param("table")
	row, err := h.store.NewRow(table)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := c.ShouldBindJSON(row); err != nil {
		if fields := validator.MissingFields(err); len(fields) > 0 {
			respondWithError(c, &backend.Error{
				Status:  http.StatusBadRequest,
				Code:    backend.CodeNotNull,
				Message: "null value in column \"" + fields[0] + "\" of relation \"" + table + "\" violates not-null constraint",
				Details: (&validator.MissingFieldsError{Fields: fields}).Error(),
			})
			return
		}
		respondWithError(c, badRequest("invalid request body: %v", err))
		return
	}

	created, _ := h.store.NewRow(table)
	if err := h.store.Insert(c.Request.Context(), table, row, created); err != nil {
		respondWithError(c, err)
		return
	}
	h.respondWritten(c, http.StatusCreated, created)
}

// Update patches the row matching the filters
// @Summary     Update a row
// @Description Apply a partial update to the row matching the eq filters
// @Tags        tables
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       table   path   string true  "Table name"
// @Param       request body   object true  "Columns to change"
// @Success     200 {object} object
// @Failure     400 {object} ErrorResponse "Missing filter or invalid body"
// @Failure     404 {object} ErrorResponse "Unknown table"
// @Failure     406 {object} ErrorResponse "No row matched"
// @Router      /{table} [patch]
func (h *TableHandler) Update(c *gin.Context) {
	table := c.Param("table")
	filters, err := parseFilters(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondWithError(c, badRequest("invalid request body: %v", err))
		return
	}
	for col := range patch {
		if !identRe.MatchString(col) {
			respondWithError(c, badRequest("invalid column %q in body", col))
			return
		}
	}

	updated, err := h.store.NewRow(table)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.store.Update(c.Request.Context(), table, patch, filters, updated); err != nil {
		respondWithError(c, err)
		return
	}
	h.respondWritten(c, http.StatusOK, updated)
}

// Delete removes the rows matching the filters
// @Summary     Delete rows
// @Description Delete the rows matching the eq filters. At least one filter is required.
// @Tags        tables
// @Security    ApiKeyAuth
// @Param       table path string true "Table name"
// @Success     204
// @Failure     400 {object} ErrorResponse "Missing filter"
// @Failure     404 {object} ErrorResponse "Unknown table"
// @Router      /{table} [delete]
func (h *TableHandler) Delete(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.store.Delete(c.Request.Context(), c.Param("table"), filters); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TableHandler) respondWritten(c *gin.Context, status int, row any) {
	switch {
	case !wantsRepresentation(c):
		c.Status(status)
	case wantsObject(c):
		c.JSON(status, row)
	default:
		c.JSON(status, []any{row})
	}
}
