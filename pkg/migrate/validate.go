package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationName = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

// ValidateDir checks the migrations of a directory on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateFS checks every .sql file of dir for a timestamped name, a unique
// version and goose Up/Down markers in that order. All problems are reported
// together.
func ValidateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var errs error
	versions := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		match := migrationName.FindStringSubmatch(name)
		if match == nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, dup := versions[match[1]]; dup {
			errs = multierr.Append(errs, fmt.Errorf("version %s used by both %q and %q", match[1], prev, name))
		}
		versions[match[1]] = name
		errs = multierr.Append(errs, checkMarkers(fsys, path.Join(dir, name)))
	}
	if len(versions) == 0 && errs == nil {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return errs
}

func checkMarkers(fsys fs.FS, file string) error {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("read %q: %w", file, err)
	}
	text := string(raw)
	up, down := strings.Index(text, upMarker), strings.Index(text, downMarker)
	switch {
	case up < 0:
		return fmt.Errorf("%s: missing %q", file, upMarker)
	case down < 0:
		return fmt.Errorf("%s: missing %q", file, downMarker)
	case down < up:
		return fmt.Errorf("%s: Down section precedes Up", file)
	}
	return nil
}
