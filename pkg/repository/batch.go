package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Statement is a single parameterized statement within a batch.
type Statement struct {
	SQL  string
	Args []any
}

// Result reports the outcome of one batch statement.
type Result struct {
	RowsAffected int64
}

// ExecBatch executes the statements inside a single transaction, the only
// atomicity boundary the store exposes. On error the transaction is rolled
// back and the caller must assume nothing in the batch was applied; the
// results for statements executed before the failure are still returned so
// callers can inspect every outcome.
func ExecBatch(ctx context.Context, db *sql.DB, stmts []Statement) ([]Result, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	results, err := execStatements(ctx, tx, stmts)
	if err != nil {
		return results, err
	}

	if err := tx.Commit(); err != nil {
		return results, fmt.Errorf("commit batch: %w", err)
	}

	return results, nil
}

// ExecBatchTx executes the statements on an existing transaction, allowing a
// batch to participate in a larger unit of work.
func ExecBatchTx(ctx context.Context, tx *sql.Tx, stmts []Statement) ([]Result, error) {
	return execStatements(ctx, tx, stmts)
}

func execStatements(ctx context.Context, tx *sql.Tx, stmts []Statement) ([]Result, error) {
	results := make([]Result, 0, len(stmts))

	for i, stmt := range stmts {
		res, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return results, fmt.Errorf("batch statement %d: %w", i, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return results, fmt.Errorf("batch statement %d rows: %w", i, err)
		}

		results = append(results, Result{RowsAffected: affected})
	}

	return results, nil
}
