package database

import (
	"io/fs"
	"path"
	"regexp"
	"strings"
	"testing"
)

// upMigrations returns the names of all embedded .up.sql files.
func upMigrations(t *testing.T) []string {
	t.Helper()
	files, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		t.Fatalf("globbing migration files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migration files embedded")
	}
	return files
}

// TestMigrations_UpDownPairs ensures every .up.sql has a matching .down.sql.
func TestMigrations_UpDownPairs(t *testing.T) {
	for _, up := range upMigrations(t) {
		down := strings.Replace(up, ".up.sql", ".down.sql", 1)
		if _, err := fs.Stat(migrationFiles, down); err != nil {
			t.Errorf("missing down migration for %s", path.Base(up))
		}
	}
}

// TestMigrations_SingleStatement guards against files that would need the
// multiStatements DSN flag, which the pool does not enable.
func TestMigrations_SingleStatement(t *testing.T) {
	all, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		t.Fatalf("globbing: %v", err)
	}
	for _, f := range all {
		data, err := fs.ReadFile(migrationFiles, f)
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}
		body := strings.TrimSpace(string(data))
		if n := strings.Count(body, ";"); n != 1 || !strings.HasSuffix(body, ";") {
			t.Errorf("%s: expected exactly one terminated statement, found %d semicolons", path.Base(f), n)
		}
	}
}

// TestMigrations_ProductColumnsRequired checks that every catalog field the
// API treats as required is NOT NULL in the schema.
func TestMigrations_ProductColumnsRequired(t *testing.T) {
	data, err := fs.ReadFile(migrationFiles, "migrations/000002_create_products.up.sql")
	if err != nil {
		t.Fatalf("reading products migration: %v", err)
	}
	content := string(data)

	for _, col := range []string{"price", "brand", "color", "category", "stock"} {
		re := regexp.MustCompile(`(?m)^\s*` + col + `\s+[A-Z]+[^\n]*NOT NULL`)
		if !re.MatchString(content) {
			t.Errorf("products.%s must be declared NOT NULL", col)
		}
	}
}

// TestMigrations_UniqueEmail keeps the duplicate-registration guarantee in
// the database, not only in the service check.
func TestMigrations_UniqueEmail(t *testing.T) {
	data, err := fs.ReadFile(migrationFiles, "migrations/000001_create_users.up.sql")
	if err != nil {
		t.Fatalf("reading users migration: %v", err)
	}
	if !regexp.MustCompile(`UNIQUE KEY \w+ \(email\)`).Match(data) {
		t.Error("users.email must carry a unique index")
	}
}
