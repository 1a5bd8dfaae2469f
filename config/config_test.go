package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artpar/apicompat/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apicompat.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.ErrorReplyStruct != "ErrorReply" {
		t.Errorf("ErrorReplyStruct = %q", cfg.ErrorReplyStruct)
	}
	if cfg.GenericArgumentList != "generic_args_api_v1" {
		t.Errorf("GenericArgumentList = %q", cfg.GenericArgumentList)
	}
	if cfg.GenericReplyFieldList != "generic_reply_fields_api_v1" {
		t.Errorf("GenericReplyFieldList = %q", cfg.GenericReplyFieldList)
	}
	if len(cfg.SkipFiles) != 1 || cfg.SkipFiles[0] != "unittest.idl" {
		t.Errorf("SkipFiles = %v", cfg.SkipFiles)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	allowed := make(map[string]bool, len(cfg.AllowAnyTypes))
	for _, k := range cfg.AllowAnyTypes {
		allowed[k] = true
	}
	for _, k := range []string{"find-param-filter", "aggregate-param-pipeline", "saslStart-reply-payload"} {
		if !allowed[k] {
			t.Errorf("default allow list missing %q", k)
		}
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
error_reply_struct: CustomError
logging:
  level: debug
  format: console
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ErrorReplyStruct != "CustomError" {
		t.Errorf("ErrorReplyStruct = %q", cfg.ErrorReplyStruct)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	// Untouched keys keep their defaults.
	if cfg.GenericArgumentList != "generic_args_api_v1" {
		t.Errorf("GenericArgumentList = %q", cfg.GenericArgumentList)
	}
	if len(cfg.AllowAnyTypes) == 0 {
		t.Error("AllowAnyTypes lost its defaults")
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("APICOMPAT_TEST_STRUCT", "EnvError")
	path := writeConfig(t, "error_reply_struct: ${APICOMPAT_TEST_STRUCT}\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ErrorReplyStruct != "EnvError" {
		t.Errorf("ErrorReplyStruct = %q", cfg.ErrorReplyStruct)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad logging format", "logging:\n  format: xml\n"},
		{"empty error reply struct", "error_reply_struct: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadWithFallback(t *testing.T) {
	t.Run("missing path returns defaults", func(t *testing.T) {
		cfg, err := config.LoadWithFallback(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadWithFallback: %v", err)
		}
		if cfg.ErrorReplyStruct != "ErrorReply" {
			t.Errorf("ErrorReplyStruct = %q", cfg.ErrorReplyStruct)
		}
	})

	t.Run("existing path loads", func(t *testing.T) {
		path := writeConfig(t, "error_reply_struct: Other\n")
		cfg, err := config.LoadWithFallback(path)
		if err != nil {
			t.Fatalf("LoadWithFallback: %v", err)
		}
		if cfg.ErrorReplyStruct != "Other" {
			t.Errorf("ErrorReplyStruct = %q", cfg.ErrorReplyStruct)
		}
	})

	t.Run("existing but invalid path errors", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  format: xml\n")
		if _, err := config.LoadWithFallback(path); err == nil {
			t.Fatal("expected error for invalid config")
		}
	})
}
