//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "inventory-api"
	ConsumerName = "storefront"

	StateCatalogBaseline = "catalog baseline"
	StateBookExists      = "book with id 101 exists"
	StateBookMissing     = "no book with id 404"
	StateAccountsBase    = "accounts baseline"
	StateUsernameTaken   = "username pact-reader is taken"
)

const (
	ExistingBookID int64 = 101
	MissingBookID  int64 = 404

	// StaffToken and ReaderToken are resolved by the provider without a login round trip.
	StaffToken  = "pact-staff-token"
	ReaderToken = "pact-reader-token"

	ReaderUsername = "pact-reader"
	ReaderPassword = "pact-pass-123"
)

const (
	ExampleBookTitle    = "Dune"
	ExampleBookQuantity = 5
	ExampleRestock      = "10"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleRegistration is the body the storefront sends to sign a reader up.
func ExampleRegistration(username string) map[string]any {
	return map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": ReaderPassword,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
