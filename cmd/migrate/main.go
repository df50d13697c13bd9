package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"
	"runtime"
	"strconv"

	"github.com/jackc/pgx/v5"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/logger"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-to version] up|status\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	to := flag.Int("to", -1, "target schema version for up, latest when negative")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	if err := logger.SetupSLog(cfg.Level(), cfg.LogFormat, path.Dir(path.Dir(path.Dir(thisFile))), nil); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database: " + err.Error())
		os.Exit(1)
	}
	defer conn.Close(ctx)

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = database.MigrateTo(ctx, conn, slog.Default(), int32(*to))
	case "status":
		var current, latest int32
		current, latest, err = database.Status(ctx, conn)
		if err == nil {
			fmt.Println("current version: " + strconv.Itoa(int(current)))
			fmt.Println("latest version:  " + strconv.Itoa(int(latest)))
		}
	default:
		slog.Error("Unknown command " + cmd)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
