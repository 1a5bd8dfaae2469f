// Package config provides checker configuration loading and hot reload.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	// AllowAnyTypes is the allow-any registry: keys of the form
	// "<command>", "<command>-param-<field>" or "<command>-reply-<field>"
	// whose fields may carry the "any" wildcard serialization kind.
	AllowAnyTypes []string `yaml:"allow_any_types"`

	// SkipFiles lists definition file base names to ignore.
	SkipFiles []string `yaml:"skip_files"`

	// IncludeDirs are extra directories searched for imported symbols.
	IncludeDirs []string `yaml:"include_dirs"`

	// ErrorReplyStruct names the shared error-reply struct checked
	// independently of any command.
	ErrorReplyStruct string `yaml:"error_reply_struct"`

	// GenericArgumentList and GenericReplyFieldList name the generic
	// field lists whose members may never be removed.
	GenericArgumentList   string `yaml:"generic_argument_list"`
	GenericReplyFieldList string `yaml:"generic_reply_field_list"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// Default returns the built-in configuration. The allow-any entries cover
// the stable commands whose fields cannot avoid the "any" kind; their wire
// fidelity is guarded by serializer identity checks instead.
func Default() *Config {
	return &Config{
		AllowAnyTypes: []string{
			"aggregate-param-pipeline",
			"aggregate-param-explain",
			"aggregate-param-allowDiskUse",
			"aggregate-param-cursor",
			"aggregate-param-hint",
			"aggregate-param-needsMerge",
			"aggregate-param-fromRouter",
			"aggregate-param-isMapReduceCommand",
			"find-param-filter",
			"find-param-projection",
			"find-param-sort",
			"find-param-hint",
			"find-param-collation",
			"find-param-singleBatch",
			"find-param-allowDiskUse",
			"find-param-min",
			"find-param-max",
			"find-param-returnKey",
			"find-param-showRecordId",
			"find-param-tailable",
			"find-param-oplogReplay",
			"find-param-noCursorTimeout",
			"find-param-awaitData",
			"find-param-allowPartialResults",
			"find-param-readOnce",
			"find-param-maxTimeMS",
			"update-param-u",
			"update-param-hint",
			"update-reply-_id",
			"delete-param-limit",
			"delete-param-hint",
			"findAndModify-param-hint",
			"findAndModify-param-update",
			"findAndModify-reply-upserted",
			"explain-param-collation",
			"saslStart-param-payload",
			"saslStart-reply-payload",
			"saslContinue-param-payload",
			"saslContinue-reply-payload",
		},
		SkipFiles:             []string{"unittest.idl"},
		ErrorReplyStruct:      "ErrorReply",
		GenericArgumentList:   "generic_args_api_v1",
		GenericReplyFieldList: "generic_reply_fields_api_v1",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file, layered over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadWithFallback loads from path when the file exists, otherwise returns
// the defaults. An explicit path that fails to parse is still an error.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

func validate(cfg *Config) error {
	switch cfg.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}
	if cfg.ErrorReplyStruct == "" {
		return fmt.Errorf("error_reply_struct must not be empty")
	}
	return nil
}
