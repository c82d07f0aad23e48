package database

import (
	"testing"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("jobs"))

	expected := `SELECT * FROM "jobs"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_ReservedColumnQuoted(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("job_tasks",
		WithColumns("id", "order"),
		WithOrderBy("order", "asc"),
	))

	expected := `SELECT "id", "order" FROM "job_tasks" ORDER BY "order" ASC`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_Conditions(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("jobs",
		WithColumns("id"),
		WithCondition(WhereCond("status", In, []string{"PENDING", "IN_PROGRESS"})),
		WithCondition(WhereCond("assigned_to", Equal, "tech-1")),
		WithCondition(WhereNull("scheduled_date")),
		WithCondition(WhereRawCond("(created_at < $1 OR updated_at < $1)", "2026-01-01")),
		WithOrderBy("created_at", "DESC"),
		WithOrderBy("id", "sideways"),
	))

	expected := `SELECT "id" FROM "jobs" WHERE "status" IN ($1, $2) AND "assigned_to" = $3` +
		` AND "scheduled_date" IS NULL AND (created_at < $4 OR updated_at < $4)` +
		` ORDER BY "created_at" DESC, "id"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 4 {
		t.Fatalf("Expected 4 args, got %d", len(args))
	}
	if args[3] != "2026-01-01" {
		t.Errorf("Expected raw param to be bound last, got %v", args[3])
	}
}

func TestBuildListQuery_EmptyInDropped(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("jobs",
		WithCondition(WhereCond("status", In, []string{})),
	))

	if query != `SELECT * FROM "jobs"` {
		t.Errorf("Expected empty IN to be dropped, got %q", query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereCond_CustomPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for Custom condition built with WhereCond")
		}
	}()
	WhereCond("x", Custom, nil)
}
