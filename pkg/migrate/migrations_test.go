package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_bad.sql", "-- +goose Up\n-- +goose Down\n")
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for short version prefix")
	}
}

func TestValidateDirRejectsMissingDown(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250901120000_missing_down.sql", "-- +goose Up\nSELECT 1;\n")
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for missing goose Down header")
	}
}

func TestValidateDirRejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n"
	writeMigration(t, dir, "20250901120000_first.sql", body)
	writeMigration(t, dir, "20250901120000_second.sql", body)
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for duplicate version")
	}
}

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}
}
