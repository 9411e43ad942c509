package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where migration files live in the source tree.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// EmbeddedFS exposes the compiled-in migration files rooted at "migrations".
func EmbeddedFS() fs.FS {
	return embedded
}

// Source selects where migration files are read from. The zero value uses the
// files compiled into the binary.
type Source struct {
	Dir string
}

func (s Source) fsys() (fs.FS, error) {
	if s.Dir == "" {
		return fs.Sub(embedded, "migrations")
	}
	return os.DirFS(s.Dir), nil
}

// Runner applies the postgres schema migrations.
type Runner struct {
	provider *goose.Provider
	out      io.Writer
}

// NewRunner binds a goose provider to db. Status and progress lines go to out
// when it is non-nil.
func NewRunner(db *sql.DB, src Source, out io.Writer) (*Runner, error) {
	if db == nil {
		return nil, errors.New("migrate: db is required")
	}
	fsys, err := src.fsys()
	if err != nil {
		return nil, fmt.Errorf("migrate: open source: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migrate: new provider: %w", err)
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{provider: p, out: out}, nil
}

// Run executes one of up, down or status.
func (r *Runner) Run(ctx context.Context, command string) error {
	switch command {
	case "up":
		results, err := r.provider.Up(ctx)
		r.report(results...)
		return wrap("up", err)
	case "down":
		result, err := r.provider.Down(ctx)
		if result != nil {
			r.report(result)
		}
		return wrap("down", err)
	case "status":
		statuses, err := r.provider.Status(ctx)
		if err != nil {
			return wrap("status", err)
		}
		for _, st := range statuses {
			applied := "-"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(r.out, "%-8s %-20s %s\n", st.State, applied, st.Source.Path)
		}
		return nil
	}
	return fmt.Errorf("migrate: unknown command %q", command)
}

// MigrateTo moves the schema up or down to the given YYYYMMDDHHMMSS version.
func (r *Runner) MigrateTo(ctx context.Context, version string) error {
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil || target < 0 {
		return fmt.Errorf("migrate: invalid version %q (expected YYYYMMDDHHMMSS)", version)
	}
	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return wrap("version", err)
	}
	switch {
	case current < target:
		results, err := r.provider.UpTo(ctx, target)
		r.report(results...)
		return wrap("up-to", err)
	case current > target:
		results, err := r.provider.DownTo(ctx, target)
		r.report(results...)
		return wrap("down-to", err)
	}
	return nil
}

func (r *Runner) report(results ...*goose.MigrationResult) {
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		fmt.Fprintf(r.out, "%-4s %d %s (%s)\n", res.Direction, res.Source.Version, res.Source.Path, res.Duration.Round(1e6))
	}
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("migrate %s: %w", op, err)
}
