package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"promptdeck/internal/backend"
	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/logger"
	"promptdeck/internal/middleware"
	"promptdeck/internal/pagination"
)

const (
	mediaObject    = "application/vnd.pgrst.object+json"
	preferReturnRe = "return=representation"
)

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// reservedParams are query parameters that are not column filters.
var reservedParams = map[string]bool{"select": true, "order": true, "limit": true, "offset": true}

func badRequest(format string, args ...any) *backend.Error {
	return &backend.Error{
		Status:  http.StatusBadRequest,
		Code:    backend.CodeBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

// parseRange binds the limit and offset parameters.
func parseRange(c *gin.Context) (pagination.Range, error) {
	var r pagination.Range
	if err := c.ShouldBindQuery(&r); err != nil {
		return r, badRequest("invalid limit or offset")
	}
	return r, nil
}

// parseSelect parses a select parameter such as "id,title".
func parseSelect(raw string) ([]string, error) {
	if raw == "" || raw == "*" {
		return nil, nil
	}
	cols := strings.Split(raw, ",")
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if !identRe.MatchString(col) {
			return nil, badRequest("invalid column %q in select", col)
		}
		cols[i] = col
	}
	return cols, nil
}

// parseOrder parses an order parameter such as "name.asc,id.desc".
func parseOrder(raw string) ([]backend.Order, error) {
	if raw == "" {
		return nil, nil
	}
	var orders []backend.Order
	for _, term := range strings.Split(raw, ",") {
		col, dir, _ := strings.Cut(strings.TrimSpace(term), ".")
		if !identRe.MatchString(col) {
			return nil, badRequest("invalid column %q in order", col)
		}
		switch dir {
		case "", "asc":
			orders = append(orders, backend.Order{Column: col})
		case "desc":
			orders = append(orders, backend.Order{Column: col, Descending: true})
		default:
			return nil, badRequest("invalid order direction %q", dir)
		}
	}
	return orders, nil
}

// parseFilters turns col=eq.value parameters into equality filters. Only the
// eq operator is supported. Integer values are passed as integers.
func parseFilters(c *gin.Context) ([]backend.Filter, error) {
	var filters []backend.Filter
	for col, values := range c.Request.URL.Query() {
		if reservedParams[col] {
			continue
		}
		if !identRe.MatchString(col) {
			return nil, badRequest("invalid filter column %q", col)
		}
		for _, v := range values {
			op, operand, ok := strings.Cut(v, ".")
			if !ok || op != "eq" {
				return nil, badRequest("unsupported filter %q on %s", v, col)
			}
			filters = append(filters, backend.Eq(col, filterValue(operand)))
		}
	}
	return filters, nil
}

func filterValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

func wantsObject(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), mediaObject)
}

func wantsRepresentation(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Prefer"), preferReturnRe)
}

// respondWithError writes a PostgREST-shaped JSON error. Backend errors keep
// their status and code; AppErrors use theirs; anything else is logged and
// returned as a generic internal error.
func respondWithError(c *gin.Context, err error) {
	var beErr *backend.Error
	if errors.As(err, &beErr) {
		if beErr.Status >= http.StatusInternalServerError {
			logger.Get().Errorw("backend error",
				"code", beErr.Code,
				"message", beErr.Message,
				"path", c.Request.URL.Path,
				"request_id", middleware.RequestID(c),
			)
		}
		c.JSON(beErr.Status, beErr)
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", middleware.RequestID(c),
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Code: appErr.Code, Message: appErr.Message})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", middleware.RequestID(c),
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	})
}

// ErrorResponse is the error body every endpoint returns.
type ErrorResponse struct {
	Code    string `json:"code" example:"PGRST116"`
	Message string `json:"message" example:"JSON object requested, multiple (or no) rows returned"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}
