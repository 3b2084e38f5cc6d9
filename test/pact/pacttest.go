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
	ProviderName = "registry-api"
	ConsumerName = "admin-portal"

	StateBaseline           = "registry baseline"
	StateRegistrationExists = "registration ESA-000101 exists and is active"
	StateRegistrationGone   = "no registration PSD-999999"
)

const (
	AdminToken   = "pact-admin-token"
	AdminSubject = "pact-admin"

	ExistingRegistrationNumber = "ESA-000101"
	MissingRegistrationNumber  = "PSD-999999"
)

// ExampleProvisionPayload provides stable test data for the composite
// creation endpoint.
func ExampleProvisionPayload() map[string]any {
	return map[string]any{
		"email":            "pact.owner@example.com",
		"fullName":         "Pact Owner",
		"petName":          "Waffles",
		"petBreed":         "golden retriever",
		"petSpecies":       "dog",
		"registrationType": "esa",
		"serviceId":        "svc-pact-1",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the admin portal consumer.
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

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
