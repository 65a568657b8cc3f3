package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MigrationFile points at a created up/down pair
type MigrationFile struct {
	Version  string
	UpPath   string
	DownPath string
}

// CreateMigration writes a skeleton up/down SQL pair into migrationsDir.
// Versions are second-resolution timestamps so pairs sort in creation
// order, matching the files already under migrations/.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	base := version + "_" + sanitizeName(name)

	mf := &MigrationFile{
		Version:  version,
		UpPath:   filepath.Join(migrationsDir, base+".up.sql"),
		DownPath: filepath.Join(migrationsDir, base+".down.sql"),
	}

	up := migrationHeader(name, description, now) + "\n-- Write the UP migration SQL here.\n"
	if err := os.WriteFile(mf.UpPath, []byte(up), 0o644); err != nil {
		return nil, fmt.Errorf("write up migration: %w", err)
	}

	down := migrationHeader(name, "Rollback for "+name, now) + "\n-- Write the DOWN migration SQL here.\n"
	if err := os.WriteFile(mf.DownPath, []byte(down), 0o644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("write down migration: %w", err)
	}

	return mf, nil
}

func migrationHeader(name, description string, createdAt time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- Migration: %s\n", sanitizeName(name))
	fmt.Fprintf(&sb, "-- Created: %s\n", createdAt.Format(time.RFC3339))
	if description != "" {
		fmt.Fprintf(&sb, "-- Description: %s\n", description)
	}
	return sb.String()
}

// sanitizeName lowercases the migration name and collapses everything
// outside [a-z0-9] into single underscores
func sanitizeName(name string) string {
	var sb strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pending = false
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			pending = true
		}
	}
	return sb.String()
}

// ListMigrations returns the base names of the up/down pairs in a directory.
// A missing directory is treated as having no migrations.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".up.sql"))
	}
	return names, nil
}
