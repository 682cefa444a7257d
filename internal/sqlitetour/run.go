package sqlitetour

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
	"github.com/nsqlite/sqlitetour/internal/sqlitetour/config"
	"github.com/nsqlite/sqlitetour/internal/sqlitetour/shell"
	"github.com/nsqlite/sqlitetour/internal/sqlitetour/tour"
	"github.com/nsqlite/sqlitetour/internal/version"
)

// Run runs the sqlitetour CLI.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewLoggerWithLevel(os.Stderr, conf.Level)
	logger.DebugNs(log.NsTour, "starting sqlitetour", log.KV{
		"version":        version.Version,
		"sqlite_version": sqlitec.LibVersion(),
		"data_directory": conf.DataDirectory,
	})

	fmt.Println(version.TourVersion())
	fmt.Println()

	if conf.Shell != nil {
		return runShell(ctx, stop, conf, logger)
	}

	tr, err := tour.New(tour.Config{
		Logger:    logger,
		Directory: conf.DataDirectory,
		Out:       os.Stdout,
	})
	if err != nil {
		return err
	}

	switch {
	case conf.Part1 != nil:
		return tr.Part1()
	case conf.Part2 != nil:
		return tr.Part2()
	}

	if err := tr.Part1(); err != nil {
		return err
	}
	fmt.Println()
	return tr.Part2()
}

func runShell(ctx context.Context, stop context.CancelFunc, conf config.Config, logger log.Logger) error {
	path := conf.Shell.Database
	if path == "" {
		path = tour.DatabasePart2.Path(conf.DataDirectory)
	}

	conn, err := sqlitec.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.ErrorNs(log.NsShell, "failed to close database", log.KV{"error": err})
		}
	}()

	sh, err := shell.New(ctx, stop, shell.Config{
		Logger: logger,
		Conn:   conn,
		Out:    os.Stdout,
	})
	if err != nil {
		return err
	}

	defer sh.Shutdown()
	go func() {
		if err := sh.Start(); err != nil {
			fmt.Println(err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
