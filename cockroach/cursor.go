package cockroach

import (
	"fmt"
	"slices"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/jackc/pgx/v5"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultPageSize = 25

type Cursor[T any] struct {
	ID string `msgpack:"i"`
	// Value will most of the time be a [CreatedAt time.Time] field.
	Value T `msgpack:"v,omitempty"`
}

type timeCursor = Cursor[time.Time]

func EncodeCursor[T any](cursor Cursor[T]) (string, error) {
	b, err := msgpack.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("msgpack marshal cursor: %w", err)
	}

	return base58.Encode(b), nil
}

func DecodeCursor[T any](s string) (Cursor[T], error) {
	var c Cursor[T]

	b := base58.Decode(s)
	if err := msgpack.Unmarshal(b, &c); err != nil {
		return c, errs.NewInvalidArgumentError("Cursor", "invalid cursor")
	}

	return c, nil
}

// addPageFilter appends the keyset condition for the given cursor pair of
// columns. The query must already contain a WHERE clause.
func addPageFilter(query, col, idCol string, asc bool, args pgx.StrictNamedArgs, pageArgs types.PageArgs) (string, error) {
	var cursorStr *string
	if pageArgs.IsBackwards() {
		cursorStr = pageArgs.Before
	} else {
		cursorStr = pageArgs.After
	}

	if cursorStr == nil {
		return query, nil
	}

	cursor, err := DecodeCursor[time.Time](*cursorStr)
	if err != nil {
		return "", err
	}

	cmp := "<"
	if asc != pageArgs.IsBackwards() {
		cmp = ">"
	}

	args["cursor_value"] = cursor.Value
	args["cursor_id"] = cursor.ID

	return query + fmt.Sprintf(" AND (%s, %s) %s (@cursor_value, @cursor_id)", col, idCol, cmp), nil
}

func addPageOrder(query, col, idCol string, asc bool, pageArgs types.PageArgs) string {
	dir := "DESC"
	if asc != pageArgs.IsBackwards() {
		dir = "ASC"
	}

	return query + fmt.Sprintf(" ORDER BY %s %s, %s %s", col, dir, idCol, dir)
}

// addPageLimit asks for one extra row so applyPageInfo can tell whether
// another page exists.
func addPageLimit(query string, args pgx.StrictNamedArgs, pageArgs types.PageArgs) string {
	size := or(pageArgs.First, defaultPageSize)
	if pageArgs.IsBackwards() {
		size = or(pageArgs.Last, defaultPageSize)
	}

	args["limit"] = size + 1

	return query + " LIMIT @limit"
}

// applyPageInfo modifies the given page in-place.
// It cuts the extra row fetched by addPageLimit and reverses the items back
// into their natural order in case of backwards pagination.
func applyPageInfo[I any](page *types.Page[I], pageArgs types.PageArgs, cursorFunc func(item I) timeCursor) error {
	l := uint(len(page.Items))
	if l == 0 {
		return nil
	}

	backwards := pageArgs.IsBackwards()
	if backwards {
		last := or(pageArgs.Last, defaultPageSize)
		page.PageInfo.HasPreviousPage = l > last
		if page.PageInfo.HasPreviousPage {
			page.Items = page.Items[:last]
		}
		page.PageInfo.HasNextPage = pageArgs.Before != nil
	} else {
		first := or(pageArgs.First, defaultPageSize)
		page.PageInfo.HasNextPage = l > first
		if page.PageInfo.HasNextPage {
			page.Items = page.Items[:first]
		}
		page.PageInfo.HasPreviousPage = pageArgs.After != nil
	}

	if backwards {
		slices.Reverse(page.Items)
	}

	l = uint(len(page.Items))
	if l == 0 {
		return nil
	}

	startCursor := cursorFunc(page.Items[0])
	endCursor := cursorFunc(page.Items[l-1])

	if c, err := EncodeCursor(startCursor); err != nil {
		return fmt.Errorf("encode start cursor: %w", err)
	} else {
		page.PageInfo.StartCursor = new(c)
	}

	if c, err := EncodeCursor(endCursor); err != nil {
		return fmt.Errorf("encode end cursor: %w", err)
	} else {
		page.PageInfo.EndCursor = new(c)
	}

	return nil
}

func or[T any](a *T, b T) T {
	if a != nil {
		return *a
	}

	return b
}
