package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestStoreConfig_EmptyDriverDefaultsFile(t *testing.T) {
	cfg := StoreConfig{Path: "./notes.json"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty driver should default to file: %v", err)
	}
	if cfg.Driver != StoreDriverFile {
		t.Errorf("driver = %q, want %q", cfg.Driver, StoreDriverFile)
	}
}

func TestStoreConfig_InvalidDriver(t *testing.T) {
	cfg := StoreConfig{Driver: "redis", Path: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown driver should fail validation")
	}
}

func TestStoreConfig_PathRequired(t *testing.T) {
	cfg := StoreConfig{Driver: StoreDriverSQLite}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("sqlite driver without path should fail")
	}
	if !strings.Contains(err.Error(), "requires a path") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStoreConfig_MemoryNeedsNoPath(t *testing.T) {
	cfg := StoreConfig{Driver: StoreDriverMemory}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory driver should pass without path: %v", err)
	}
}

func TestAIConfig_EmptyKeyIsValid(t *testing.T) {
	cfg := AIConfig{TimeoutSeconds: 30}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty api key should pass validation: %v", err)
	}
}

func TestAIConfig_NegativeTimeout(t *testing.T) {
	cfg := AIConfig{TimeoutSeconds: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative timeout should fail validation")
	}
}

func TestFullConfig_DefaultsValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
