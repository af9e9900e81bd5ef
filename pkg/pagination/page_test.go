package pagination_test

import (
	"testing"
	"time"

	"github.com/curiolist/curio/pkg/pagination"
)

type record struct {
	id        string
	createdAt time.Time
}

func recordCursor(r record) pagination.Cursor {
	return pagination.Cursor{CreatedAt: r.createdAt, ID: r.id}
}

func TestNewPage_FullPageWithProbe(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []record{
		{"a", base.Add(3 * time.Hour)},
		{"b", base.Add(2 * time.Hour)},
		{"c", base.Add(time.Hour)},
	}

	page := pagination.NewPage(rows, 2, 10, recordCursor)

	if len(page.Items) != 2 {
		t.Fatalf("Items = %d rows, want 2", len(page.Items))
	}
	if !page.HasMore {
		t.Error("HasMore = false, want true")
	}
	if page.Total != 10 {
		t.Errorf("Total = %d, want 10", page.Total)
	}
	if page.NextCursor == nil {
		t.Fatal("NextCursor = nil, want cursor")
	}

	cur, err := pagination.DecodeCursor(*page.NextCursor)
	if err != nil {
		t.Fatalf("DecodeCursor() error = %v", err)
	}
	if cur.ID != "b" {
		t.Errorf("cursor id = %q, want %q (last retained item)", cur.ID, "b")
	}
}

func TestNewPage_PartialPage(t *testing.T) {
	rows := []record{
		{"a", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	page := pagination.NewPage(rows, 20, 1, recordCursor)

	if len(page.Items) != 1 {
		t.Fatalf("Items = %d rows, want 1", len(page.Items))
	}
	if page.HasMore {
		t.Error("HasMore = true, want false")
	}
	if page.NextCursor != nil {
		t.Errorf("NextCursor = %q, want nil", *page.NextCursor)
	}
}

func TestNewPage_Empty(t *testing.T) {
	page := pagination.NewPage(nil, 20, 0, recordCursor)

	if page.Items == nil {
		t.Error("Items = nil, want empty slice")
	}
	if len(page.Items) != 0 {
		t.Errorf("Items = %d rows, want 0", len(page.Items))
	}
	if page.HasMore {
		t.Error("HasMore = true, want false")
	}
	if page.NextCursor != nil {
		t.Error("NextCursor set, want nil")
	}
}

func TestClampLimit(t *testing.T) {
	cfg := pagination.Config{DefaultLimit: 20, MaxLimit: 100}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero takes default", 0, 20},
		{"negative takes default", -5, 20},
		{"in range passes through", 42, 42},
		{"at max", 100, 100},
		{"above max capped", 500, 100},
		{"minimum", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pagination.ClampLimit(tt.limit, cfg); got != tt.want {
				t.Errorf("ClampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}
