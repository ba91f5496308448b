package query_test

import (
	"strings"
	"testing"

	"vinpoint/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "listings", "l").
		Project("id", "ID").
		Project("price", "Price").
		Project("discovered_at", "DiscoveredAt").
		Project("analyzed_at", "AnalyzedAt")
}

func TestWhereGreaterOrEqual(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection()).
		WhereGreaterOrEqual("Price", 1000.0).
		Build()

	if !strings.Contains(sql, "l.price >= $1") {
		t.Errorf("sql missing >= condition: %s", sql)
	}
	if len(args) != 1 || args[0] != 1000.0 {
		t.Errorf("args = %v, want [1000]", args)
	}
}

func TestWhereLessOrEqual(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection()).
		WhereLessOrEqual("Price", 200000.0).
		Build()

	if !strings.Contains(sql, "l.price <= $1") {
		t.Errorf("sql missing <= condition: %s", sql)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want one value", args)
	}
}

func TestWhereRangeNumbering(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection()).
		WhereGreaterOrEqual("Price", 1000.0).
		WhereLessOrEqual("Price", 200000.0).
		Build()

	if !strings.Contains(sql, "l.price >= $1") || !strings.Contains(sql, "l.price <= $2") {
		t.Errorf("parameter numbering wrong: %s", sql)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want two values", args)
	}
}

func TestWhereBoundsNilNoOp(t *testing.T) {
	var price *float64

	sql, args := query.
		NewBuilder(testProjection()).
		WhereGreaterOrEqual("Price", price).
		WhereLessOrEqual("Price", price).
		Build()

	if strings.Contains(sql, "WHERE") {
		t.Errorf("nil bounds should add no conditions: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestWhereNotNull(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection()).
		WhereNotNull("AnalyzedAt").
		Build()

	if !strings.Contains(sql, "l.analyzed_at IS NOT NULL") {
		t.Errorf("sql missing IS NOT NULL: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}
