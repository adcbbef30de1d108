// Package pagination handles PostgREST-style row ranges: the limit and offset
// query parameters and the Content-Range response header.
package pagination

import (
	"fmt"

	"gorm.io/gorm"
)

// Range holds limit/offset parameters parsed from query strings. A select may
// ask for at most 1000 rows.
type Range struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=1000"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Empty reports whether no range was requested.
func (r Range) Empty() bool {
	return r.Limit == 0 && r.Offset == 0
}

// ContentRange formats the header for a response carrying n rows, e.g.
// "0-9/*". The total is never counted.
func (r Range) ContentRange(n int) string {
	if n == 0 {
		return "*/*"
	}
	return fmt.Sprintf("%d-%d/*", r.Offset, r.Offset+n-1)
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given range.
func Paginate(r Range) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.Offset > 0 {
			db = db.Offset(r.Offset)
		}
		if r.Limit > 0 {
			db = db.Limit(r.Limit)
		}
		return db
	}
}
