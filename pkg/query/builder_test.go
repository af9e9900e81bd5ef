package query_test

import (
	"strings"
	"testing"
	"time"

	"github.com/curiolist/curio/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "entities", "e").
		Project("id", "id").
		Project("name", "title").
		Project("created_at", "createdAt")
}

func TestBuilder_BuildCountNoConditions(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildCount()

	want := "SELECT COUNT(*) FROM public.entities e"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilder_WhereEquals(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("title", "widget").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.entities e WHERE e.name = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "widget" {
		t.Errorf("args = %v, want [widget]", args)
	}
}

func TestBuilder_WhereEqualsNilIgnored(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("title", nil).
		BuildCount()

	if strings.Contains(sql, "WHERE") {
		t.Errorf("sql = %q, want no WHERE clause", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilder_ParameterRenumbering(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("title", "widget").
		Where("(e.kind_id = $%d OR e.kind_id = $%d)", 1, 2).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.entities e WHERE e.name = $1 AND (e.kind_id = $2 OR e.kind_id = $3)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 3 {
		t.Errorf("args = %v, want 3 values", args)
	}
}

func TestBuilder_WhereBefore(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sql, args := query.NewBuilder(testProjection()).
		WhereBefore("createdAt", "id", at, "abc").
		BuildKeyset("createdAt", "id", 21)

	wantWhere := "WHERE (e.created_at < $1 OR (e.created_at = $2 AND e.id < $3))"
	if !strings.Contains(sql, wantWhere) {
		t.Errorf("sql = %q, want to contain %q", sql, wantWhere)
	}

	wantOrder := "ORDER BY e.created_at DESC, e.id DESC LIMIT 21"
	if !strings.HasSuffix(sql, wantOrder) {
		t.Errorf("sql = %q, want suffix %q", sql, wantOrder)
	}

	if len(args) != 3 {
		t.Fatalf("args = %v, want 3 values", args)
	}
	if args[0] != at || args[1] != at || args[2] != "abc" {
		t.Errorf("args = %v, want [%v %v abc]", args, at, at)
	}
}

func TestBuilder_BuildKeysetSelectList(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection()).BuildKeyset("createdAt", "id", 10)

	wantSelect := "SELECT e.id, e.name, e.created_at FROM public.entities e"
	if !strings.HasPrefix(sql, wantSelect) {
		t.Errorf("sql = %q, want prefix %q", sql, wantSelect)
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("id", "abc")

	want := "SELECT e.id, e.name, e.created_at FROM public.entities e WHERE e.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v, want [abc]", args)
	}
}

func TestProjectionMap_ColumnUnknownField(t *testing.T) {
	p := testProjection()

	if got := p.Column("created_at"); got != "created_at" {
		t.Errorf("Column() = %q, want passthrough %q", got, "created_at")
	}
	if got := p.Column("title"); got != "e.name" {
		t.Errorf("Column() = %q, want %q", got, "e.name")
	}
}
