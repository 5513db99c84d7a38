package cockroach

import (
	"testing"
	"time"

	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/types"
)

func TestCursor_roundtrip(t *testing.T) {
	in := timeCursor{
		ID:    id.Generate(),
		Value: time.Now().UTC().Truncate(time.Microsecond),
	}

	s, err := EncodeCursor(in)
	if err != nil {
		t.Fatalf("EncodeCursor() error = %v", err)
	}

	out, err := DecodeCursor[time.Time](s)
	if err != nil {
		t.Fatalf("DecodeCursor() error = %v", err)
	}

	if out.ID != in.ID || !out.Value.Equal(in.Value) {
		t.Errorf("DecodeCursor() = %+v, want %+v", out, in)
	}
}

func TestDecodeCursor_garbage(t *testing.T) {
	if _, err := DecodeCursor[time.Time]("definitely not a cursor"); err == nil {
		t.Error("DecodeCursor() accepted garbage input")
	}
}

func Test_applyPageInfo(t *testing.T) {
	type row struct {
		ID        string
		CreatedAt time.Time
	}

	cursorFunc := func(r row) timeCursor {
		return timeCursor{ID: r.ID, Value: r.CreatedAt}
	}

	now := time.Now()
	rows := make([]row, 4)
	for i := range rows {
		rows[i] = row{ID: id.Generate(), CreatedAt: now.Add(time.Duration(i) * time.Second)}
	}

	t.Run("forwards_with_more", func(t *testing.T) {
		first := uint(3)
		page := types.Page[row]{Items: append([]row(nil), rows...)}
		pageArgs := types.PageArgs{First: &first}

		if err := applyPageInfo(&page, pageArgs, cursorFunc); err != nil {
			t.Fatalf("applyPageInfo() error = %v", err)
		}

		if got := len(page.Items); got != 3 {
			t.Errorf("len(Items) = %d, want 3", got)
		}
		if !page.PageInfo.HasNextPage {
			t.Error("HasNextPage = false, want true")
		}
		if page.PageInfo.HasPreviousPage {
			t.Error("HasPreviousPage = true, want false")
		}
		if page.PageInfo.StartCursor == nil || page.PageInfo.EndCursor == nil {
			t.Fatal("missing cursors")
		}
	})

	t.Run("backwards_reverses_items", func(t *testing.T) {
		last := uint(2)
		// Backwards queries fetch in reverse order.
		reversed := []row{rows[3], rows[2], rows[1]}
		page := types.Page[row]{Items: reversed}
		pageArgs := types.PageArgs{Last: &last}

		if err := applyPageInfo(&page, pageArgs, cursorFunc); err != nil {
			t.Fatalf("applyPageInfo() error = %v", err)
		}

		if got := len(page.Items); got != 2 {
			t.Fatalf("len(Items) = %d, want 2", got)
		}
		if page.Items[0].ID != rows[2].ID || page.Items[1].ID != rows[3].ID {
			t.Error("items not restored to natural order")
		}
		if !page.PageInfo.HasPreviousPage {
			t.Error("HasPreviousPage = false, want true")
		}
	})

	t.Run("empty_page", func(t *testing.T) {
		page := types.Page[row]{}
		if err := applyPageInfo(&page, types.PageArgs{}, cursorFunc); err != nil {
			t.Fatalf("applyPageInfo() error = %v", err)
		}
		if page.PageInfo.StartCursor != nil || page.PageInfo.EndCursor != nil {
			t.Error("cursors set on empty page")
		}
	})
}
