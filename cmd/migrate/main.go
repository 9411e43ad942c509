package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
	"github.com/kelvin-saputra/sievo-sub000/pkg/migrate"
)

const usage = `usage: migrate [flags] <command> [arg]

commands:
  up                 apply all pending migrations
  down               roll back the latest migration
  status             list applied and pending migrations
  to <version>       migrate up or down to YYYYMMDDHHMMSS
  create <name>      write a new timestamped SQL migration into -dir
  validate           check every file in -dir has goose Up/Down markers

flags:
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	dir := flag.String("dir", migrate.DefaultDir, "migrations directory")
	embedded := flag.Bool("embedded", false, "use the migrations compiled into the binary instead of -dir")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	if err := run(flag.Arg(0), flag.Arg(1), *dir, *embedded); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(command, arg, dir string, embedded bool) error {
	// file-only commands need neither config nor a database
	switch command {
	case "create":
		if arg == "" {
			return errors.New("create needs a migration name")
		}
		path, err := migrate.CreateSQLMigration(dir, arg)
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(dir); err != nil {
			return err
		}
		fmt.Println("migrations ok")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "command": command})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = client.Close() }()
	if client.Dialect() == db.DriverSQLite {
		return errors.New("sql migrations target postgres; sqlite schemas are created by SIEVO_AUTO_MIGRATE")
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}
	src := migrate.Source{Dir: dir}
	if embedded {
		src = migrate.Source{}
	}
	runner, err := migrate.NewRunner(sqlDB, src, os.Stdout)
	if err != nil {
		return err
	}

	logg.Info(ctx, "migration started")
	switch command {
	case "to":
		if arg == "" {
			return errors.New("to needs a target version")
		}
		err = runner.MigrateTo(ctx, arg)
	default:
		err = runner.Run(ctx, command)
	}
	if err != nil {
		return err
	}
	logg.Info(ctx, "migration finished")
	return nil
}
