package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpReadsPgxDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_orders_order_number",
		TableName:      "orders",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, fmt.Errorf("insert order: %w", pgErr), "order number taken")

	d := Dump(err)
	assert.Equal(t, CodeConflict, d.Code)
	require.NotNil(t, d.Postgres)
	assert.Equal(t, "unique_violation", d.Postgres.Condition)
	assert.Equal(t, "idx_orders_order_number", d.Postgres.Constraint)
	assert.Len(t, d.Chain, 3)

	fields := d.Fields()
	assert.Equal(t, "orders", fields["pg_table"])
	assert.Equal(t, "23505", fields["pg_code"])
}

func TestDumpReadsPqDiagnostics(t *testing.T) {
	err := fmt.Errorf("update product: %w", &pq.Error{Code: "23514", Table: "products", Message: "stock check"})

	d := Dump(err)
	require.NotNil(t, d.Postgres)
	assert.Equal(t, "check_violation", d.Postgres.Condition)
	assert.Equal(t, "products", d.Postgres.Table)
	assert.Empty(t, d.Code)
}

func TestDumpWalksJoinedErrors(t *testing.T) {
	err := stdErrors.Join(stdErrors.New("create auth user"), stdErrors.New("rollback auth user"))

	d := Dump(err)
	assert.Nil(t, d.Postgres)
	require.Len(t, d.Chain, 3)
	assert.Contains(t, d.Chain[1], "create auth user")
	assert.Contains(t, d.Chain[2], "rollback auth user")
	assert.NotContains(t, d.Fields(), "pg_code")
}

func TestPGCondition(t *testing.T) {
	assert.Equal(t, "foreign_key_violation", PGCondition("23503"))
	assert.Equal(t, "connection_exception", PGCondition("08006"))
	assert.Equal(t, "integrity_constraint_violation", PGCondition("23P01"))
	assert.Equal(t, "other", PGCondition("XX000"))
	assert.Equal(t, "other", PGCondition(""))
	assert.Equal(t, ErrorDump{}, Dump(nil))
}
