package query

/*
	Description:
		Package `query` provides interface for querying mongo db
		This pachage is basicly nothing but wrap https://github.com/mongodb/mongo-go-driver
		so please read document at following link for any detail
		https://godoc.org/go.mongodb.org/mongo-driver/mongo
*/

import (
	"fmt"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

// Mongo abstract the mongo layer.
type Mongo interface {
	// Insert inserts a new document to the table
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne get data from the table
	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count return counting for matched entry in the table
	Count(context ctx.Ctx, table domain.Table, selector interface{}) (n int, err error)

	// Search sort order by `sort` argument (ex "listingId" ascending, or "-listingId" descending)
	// if `sort` is "", the sort action is skipped, and the MongoDB does not guarantee the order of query results.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// Patch patch an entry, if the selector not exist, return ErrNotFound.
	Patch(context ctx.Ctx, table domain.Table, selector, update interface{}) error

	// CustomPatch patch an entry with customized mongo update statement.
	// Return ErrNotFound if upsert is false and selector does not match any documents.
	CustomPatch(context ctx.Ctx, table domain.Table, selector, update interface{}, upsert bool) error

	// RemoveAll removes every document matching the selector, returning the
	// removed count
	RemoveAll(context ctx.Ctx, table domain.Table, selector interface{}) (n int, err error)

	// Increment let you increase a field number.
	// If entry not exist, insert it.
	Increment(context ctx.Ctx, table domain.Table, selector, result interface{}, field string, inc interface{}) error

	// RunWithTransaction runs fn inside one mongo transaction. Every write
	// issued through the session-bound ctx commits or aborts together.
	RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error
}
