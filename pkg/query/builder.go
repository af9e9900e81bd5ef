package query

import (
	"fmt"
	"strings"
	"time"
)

type condition struct {
	clause string
	args   []any
}

// Builder constructs SQL queries using a fluent API with automatic parameter
// numbering. Condition clauses use "$%d" placeholders that are renumbered
// sequentially when the query is built.
type Builder struct {
	projection *ProjectionMap
	conditions []condition
}

// NewBuilder creates a Builder for the given projection.
func NewBuilder(projection *ProjectionMap) *Builder {
	return &Builder{
		projection: projection,
		conditions: make([]condition, 0),
	}
}

// WhereEquals adds an equality condition. Nil values are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if value == nil {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s = $%%d", col),
		args:   []any{value},
	})
	return b
}

// Where adds a raw condition clause. The clause must contain one "$%d"
// placeholder per argument, in argument order.
func (b *Builder) Where(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

// WhereBefore adds a keyset predicate selecting rows strictly before the
// (createdAt, id) position in descending (createdAt, id) order.
func (b *Builder) WhereBefore(createdField, idField string, createdAt time.Time, id any) *Builder {
	created := b.projection.Column(createdField)
	idCol := b.projection.Column(idField)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("(%s < $%%d OR (%s = $%%d AND %s < $%%d))", created, created, idCol),
		args:   []any{createdAt, createdAt, id},
	})
	return b
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.Table(), where)
	return sql, args
}

// BuildKeyset returns a SELECT ordered by descending (createdField, idField)
// capped at limit rows.
func (b *Builder) BuildKeyset(createdField, idField string, limit int) (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY %s DESC, %s DESC LIMIT %d",
		b.projection.Columns(),
		b.projection.Table(),
		where,
		b.projection.Column(createdField),
		b.projection.Column(idField),
		limit,
	)
	return sql, args
}

// BuildSingle returns a SELECT query for a single record by ID.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.Table(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(b.conditions))
	args := make([]any, 0)
	paramIdx := 1

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", paramIdx), 1)
			args = append(args, arg)
			paramIdx++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
