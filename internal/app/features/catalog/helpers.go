package catalog

import (
	"context"
	"errors"
	"maps"
	"net/http"

	taxonomystore "github.com/dalemusser/lessonhub/internal/app/store/taxonomy"
	"github.com/dalemusser/lessonhub/internal/app/system/inputval"
	"github.com/dalemusser/lessonhub/internal/app/system/paging"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/dalemusser/lessonhub/internal/app/system/search"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := respond.DecodeJSON(r, dst); err != nil {
		respond.BadBody(w, err)
		return false
	}
	if errs := inputval.Struct(dst); len(errs) > 0 {
		respond.Validation(w, "validation failed", errs)
		return false
	}
	return true
}

func urlID(w http.ResponseWriter, r *http.Request, param, field string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		respond.Validation(w, "invalid id", []inputval.FieldError{{Path: field, Msg: field + " must be a valid id"}})
		return primitive.NilObjectID, false
	}
	return id, true
}

// optionalID parses a hex id already checked by the objectid tag. Empty
// yields nil.
func optionalID(hex string) *primitive.ObjectID {
	if hex == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

type labels struct {
	category *primitive.ObjectID
	section  *primitive.ObjectID
	topic    *primitive.ObjectID
}

func badLabel(w http.ResponseWriter, field, msg string) {
	respond.Validation(w, "validation failed", []inputval.FieldError{{Path: field, Msg: msg}})
}

// resolveLabels checks every referenced label exists and that explicit
// parents agree with the child given. Missing parents are filled in from
// the child. It writes a 400 and returns false on a bad reference.
func (h *Handler) resolveLabels(ctx context.Context, w http.ResponseWriter, categoryID, sectionID, topicID string) (labels, bool) {
	l := labels{
		category: optionalID(categoryID),
		section:  optionalID(sectionID),
		topic:    optionalID(topicID),
	}

	if l.topic != nil {
		t, err := h.Taxonomy.GetTopic(ctx, *l.topic)
		if errors.Is(err, taxonomystore.ErrNotFound) {
			badLabel(w, "topicId", "topicId does not exist")
			return l, false
		}
		if err != nil {
			respond.Internal(w, h.Log, "topic lookup failed", err)
			return l, false
		}
		switch {
		case l.section == nil:
			sid := t.SectionID
			l.section = &sid
		case *l.section != t.SectionID:
			badLabel(w, "sectionId", "sectionId does not contain the given topic")
			return l, false
		}
	}

	if l.section != nil {
		sec, err := h.Taxonomy.GetSection(ctx, *l.section)
		if errors.Is(err, taxonomystore.ErrNotFound) {
			badLabel(w, "sectionId", "sectionId does not exist")
			return l, false
		}
		if err != nil {
			respond.Internal(w, h.Log, "section lookup failed", err)
			return l, false
		}
		switch {
		case l.category == nil:
			cid := sec.CategoryID
			l.category = &cid
		case *l.category != sec.CategoryID:
			badLabel(w, "categoryId", "categoryId does not contain the given section")
			return l, false
		}
		// the section's category was checked when the section was created
		return l, true
	}

	if l.category != nil {
		_, err := h.Taxonomy.GetCategory(ctx, *l.category)
		if errors.Is(err, taxonomystore.ErrNotFound) {
			badLabel(w, "categoryId", "categoryId does not exist")
			return l, false
		}
		if err != nil {
			respond.Internal(w, h.Log, "category lookup failed", err)
			return l, false
		}
	}
	return l, true
}

// readListQuery validates ?status= and returns the base filter for it.
func readListQuery(w http.ResponseWriter, r *http.Request) (bson.M, bool) {
	q := listQuery{Status: query.Get(r, "status")}
	if errs := inputval.Struct(q); len(errs) > 0 {
		respond.Validation(w, "invalid query", errs)
		return nil, false
	}
	base := bson.M{}
	if q.Status != "" {
		base["status"] = q.Status
	}
	return base, true
}

// listPage runs a title_ci keyset page with optional ?q= prefix search.
func listPage[T any](ctx context.Context, r *http.Request, base bson.M, find func(context.Context, bson.M, ...*options.FindOptions) ([]T, error), keyFn func(T) string, idFn func(T) primitive.ObjectID) (listResult[T], error) {
	p := paging.Parse(r)
	cfg := paging.ConfigureKeyset(p)
	const sortField = "title_ci"

	f := search.Prefix(maps.Clone(base), sortField, query.Search(r, "q"))
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		maps.Copy(f, ks)
	}

	opts := options.Find()
	cfg.ApplyToFind(opts, sortField)

	rows, err := find(ctx, f, opts)
	if err != nil {
		return listResult[T]{}, err
	}
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	page := paging.TrimPage(&rows, p)
	paging.SetCursors(&page, rows, keyFn, idFn)
	return listResult[T]{Items: rows, Page: page}, nil
}
