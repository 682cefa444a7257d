package sqlitetourbench

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitetour/render"
	"github.com/nsqlite/sqlitetour/internal/version"
)

// Run executes the contact workload for both SQLite drivers and prints the
// results.
func Run(ctx context.Context) error {
	conf := MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.BenchVersion())

	logger := log.NewLoggerWithLevel(os.Stderr, conf.Level)
	return runBenchmarks(ctx, conf, logger, os.Stdout)
}

func runBenchmarks(ctx context.Context, conf Config, logger log.Logger, out io.Writer) error {
	dir := conf.Directory
	if dir == "" {
		tmpDir, err := os.MkdirTemp("", "sqlitetourbench_*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)
		dir = tmpDir
	}

	for _, d := range benchDrivers {
		db, dbPath, err := d.open(dir)
		if err != nil {
			return fmt.Errorf("error opening %s db: %w", d.title, err)
		}
		logger.InfoNs(log.NsBench, "database opened", log.KV{"driver": d.title, "path": dbPath})

		fmt.Fprintf(out, "\n--- Benchmarks for %s ---\n", d.title)
		results, err := runBenchmark(ctx, db, conf.Contacts, out)
		_ = db.Close()
		if err != nil {
			return fmt.Errorf("error benchmarking %s: %w", d.title, err)
		}

		fmt.Fprintln(out, renderResults(results))
	}

	return nil
}

func renderResults(results []benchmarkResult) string {
	tw := render.NewTableWriter()
	tw.AppendHeader(table.Row{"Step", "Operations", "Duration", "Ops/s"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Name,
			r.Operations,
			r.Duration.Round(time.Microsecond),
			fmt.Sprintf("%.0f", r.opsPerSecond()),
		})
	}

	return tw.Render()
}
