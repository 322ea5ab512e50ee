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
	ProviderName = "users-api"
	ConsumerName = "user-portal"

	StateUsersBaseline = "users baseline"
	StateUsersListed   = "users exist for listing"
	StateEmailTaken    = "user with email taken@example.com exists"
)

const (
	ListedFirstName = "Ann"
	ListedLastName  = "Lee"
	ListedEmail     = "ann.lee@example.com"
	TakenEmail      = "taken@example.com"
	ListFilter      = "ann"
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

// PactFile returns the canonical pact file path for the user portal consumer.
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

// ExampleCreatePayload is the POST /User body used by the contract.
func ExampleCreatePayload(email string) map[string]any {
	return map[string]any{
		"first_name": "Pact",
		"last_name":  "User",
		"email":      email,
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
