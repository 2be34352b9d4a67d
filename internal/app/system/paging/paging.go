// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the request does not ask for one.
const DefaultLimit = 50

// MaxLimit caps ?limit=.
const MaxLimit = 200

// Params is the paging state read from a request: ?limit=&before=&after=.
// before wins when both cursors are sent.
type Params struct {
	Limit  int
	Before string
	After  string
}

// Parse reads paging params from r. A missing or invalid limit falls back
// to DefaultLimit; larger values are clamped to MaxLimit.
func Parse(r *http.Request) Params {
	p := Params{
		Limit:  DefaultLimit,
		Before: query.Get(r, "before"),
		After:  query.Get(r, "after"),
	}
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Before != "" {
		p.After = ""
	}
	return p
}

func (p Params) limit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

// Page describes where a returned page sits. Cursors are opaque and are
// sent back as ?before= or ?after=.
type Page struct {
	HasPrev    bool   `json:"hasPrev"`
	HasNext    bool   `json:"hasNext"`
	PrevCursor string `json:"prevCursor,omitempty"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// TrimPage trims rows fetched with a limit+1 look-ahead and reports whether
// neighbouring pages exist. rows must already be in display order.
//
// When going backwards the extra row is the first one; otherwise it is the
// last one.
func TrimPage[T any](rows *[]T, p Params) Page {
	size := p.limit()
	var page Page

	if p.Before != "" {
		if len(*rows) > size {
			*rows = (*rows)[1:]
			page.HasPrev = true
		}
		page.HasNext = true
	} else {
		if len(*rows) > size {
			*rows = (*rows)[:size]
			page.HasNext = true
		}
		page.HasPrev = p.After != ""
	}
	return page
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // ascending, "gt" cursor
	Backward                  // descending, "lt" cursor
)

// KeysetConfig holds the result of configuring keyset pagination.
type KeysetConfig struct {
	Direction Direction
	SortOrder int // 1 ascending, -1 descending
	Cursor    *wafflemongo.Cursor
	Limit     int
}

// ConfigureKeyset determines the direction and decodes the cursor. An
// undecodable cursor is ignored and the first page is served.
func ConfigureKeyset(p Params) KeysetConfig {
	cfg := KeysetConfig{
		Direction: Forward,
		SortOrder: 1,
		Limit:     p.limit(),
	}

	if p.Before != "" {
		cfg.Direction = Backward
		cfg.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(p.Before); ok {
			cfg.Cursor = &c
		}
	} else if p.After != "" {
		if c, ok := wafflemongo.DecodeCursor(p.After); ok {
			cfg.Cursor = &c
		}
	}
	return cfg
}

// ApplyToFind sets the (sortField, _id) sort and the look-ahead limit.
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(int64(cfg.Limit + 1))
}

// KeysetWindow returns the cursor condition for the query filter, or nil
// on the first page.
func (cfg KeysetConfig) KeysetWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// Reverse reverses a slice in place. Backward pages are fetched descending
// and reversed into display order.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// SetCursors fills the page's cursors from the first and last rows.
func SetCursors[T any](page *Page, rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) {
	if len(rows) == 0 {
		return
	}
	first := rows[0]
	last := rows[len(rows)-1]
	if page.HasPrev {
		page.PrevCursor = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	}
	if page.HasNext {
		page.NextCursor = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	}
}
