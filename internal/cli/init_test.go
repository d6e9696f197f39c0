package cli

import (
	"os"
	"path/filepath"
	"testing"

	"cofrinho/internal/config"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("COFRINHO_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COFRINHO_TEST_VALUE", "")
	os.Unsetenv("COFRINHO_TEST_VALUE")

	LoadEnvFile(path)
	if got := os.Getenv("COFRINHO_TEST_VALUE"); got != "from-file" {
		t.Errorf("COFRINHO_TEST_VALUE = %q, want from-file", got)
	}

	// Missing files are ignored.
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, "test")
	if logger.Component() != "test" {
		t.Errorf("Component() = %q", logger.Component())
	}
}
