// internal/app/system/search/search.go
package search

import (
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

// Prefix adds a case/diacritic-insensitive prefix match on a *_ci field to
// filter. An empty query leaves filter unchanged. The range form keeps the
// match on the (field, _id) index.
func Prefix(filter bson.M, field, q string) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	if lo, hi := text.PrefixRange(q); lo != "" {
		filter[field] = bson.M{"$gte": lo, "$lt": hi}
	}
	return filter
}
