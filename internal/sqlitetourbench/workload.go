package sqlitetourbench

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/nsqlite/sqlitetour/internal/sqlitetourbench/benchbar"
)

// benchmarkResult stores the outcome of one step of the workload.
type benchmarkResult struct {
	Name       string
	Operations int
	Duration   time.Duration
}

// opsPerSecond returns the throughput of the step.
func (r benchmarkResult) opsPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Operations) / r.Duration.Seconds()
}

// workloadStep is one statement run once per contact id. Write steps must
// change exactly one row, read steps must return one.
type workloadStep struct {
	name  string
	query string
	read  bool
	args  func(id int) []any
}

func contactSteps() []workloadStep {
	return []workloadStep{
		{
			name:  "Insert",
			query: "INSERT INTO Contact (Id, Name) VALUES (?, ?);",
			args:  func(id int) []any { return []any{id, uuid.NewString()} },
		},
		{
			name:  "Lookup",
			query: "SELECT Id, Name FROM Contact WHERE Id = ?;",
			read:  true,
			args:  func(id int) []any { return []any{id} },
		},
		{
			name:  "Rename",
			query: "UPDATE Contact SET Name = ? WHERE Id = ?;",
			args:  func(id int) []any { return []any{uuid.NewString(), id} },
		},
		{
			name:  "Delete",
			query: "DELETE FROM Contact WHERE Id = ?;",
			args:  func(id int) []any { return []any{id} },
		},
	}
}

// runBenchmark runs every workload step over contacts ids on db, in order,
// each one inside a transaction with a single prepared statement.
func runBenchmark(ctx context.Context, db *sql.DB, contacts int, out io.Writer) ([]benchmarkResult, error) {
	if err := recreateSchema(db); err != nil {
		return nil, err
	}

	var results []benchmarkResult
	for _, step := range contactSteps() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := runStep(ctx, db, step, contacts, out)
		if err != nil {
			return nil, fmt.Errorf("%s step failed: %w", step.name, err)
		}
		results = append(results, res)
	}

	return results, nil
}

func runStep(ctx context.Context, db *sql.DB, step workloadStep, contacts int, out io.Writer) (benchmarkResult, error) {
	start := time.Now()
	bar := benchbar.NewBar(out, fmt.Sprintf("%-7s %d contacts", step.name, contacts), contacts)
	defer bar.Finish()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, step.query)
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() { _ = stmt.Close() }()

	for id := 1; id <= contacts; id++ {
		if err := runOperation(ctx, stmt, step, id); err != nil {
			return benchmarkResult{}, fmt.Errorf("contact %d: %w", id, err)
		}
		bar.Inc()
	}

	if err := tx.Commit(); err != nil {
		return benchmarkResult{}, err
	}

	return benchmarkResult{
		Name:       step.name,
		Operations: bar.Count(),
		Duration:   time.Since(start),
	}, nil
}

func runOperation(ctx context.Context, stmt *sql.Stmt, step workloadStep, id int) error {
	if step.read {
		var (
			gotID int
			name  string
		)
		return stmt.QueryRowContext(ctx, step.args(id)...).Scan(&gotID, &name)
	}

	res, err := stmt.ExecContext(ctx, step.args(id)...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return fmt.Errorf("expected 1 row affected, got %d", affected)
	}
	return nil
}
