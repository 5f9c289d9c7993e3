package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Paginate builds the find options for a limit/page pair. Page is zero-based.
func Paginate(limit, page int) *options.FindOptions {
	l := int64(limit)
	skip := int64(page) * l
	return &options.FindOptions{Limit: &l, Skip: &skip}
}

// SortedPaginate builds the find options for a limit/page pair with a sort on
// the given field; order is 1 for ascending, -1 for descending.
func SortedPaginate(limit, page int, field string, order int) *options.FindOptions {
	opts := Paginate(limit, page)
	opts.Sort = bson.D{{Key: field, Value: order}}
	return opts
}
