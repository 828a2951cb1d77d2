package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/txdecode/internal/logging"
	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/pelletier/go-toml/v2"
)

const (
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"

	DefaultServerAddr = ":9310"
)

// DecoderConfig is the on-disk decoder configuration. Pointer fields
// distinguish "unset" from an explicit false.
type DecoderConfig struct {
	Format             string       `toml:"format"`
	StrictSubstateSize *bool        `toml:"strict_substate_size"`
	ValidateKeys       bool         `toml:"validate_keys"`
	MaxTxnBytes        int          `toml:"max_txn_bytes"`
	Output             string       `toml:"output"`
	Log                LogConfig    `toml:"log"`
	Server             ServerConfig `toml:"server"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Timestamp *bool  `toml:"timestamp"`
	NoColor   bool   `toml:"no_color"`
}

type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	// Token, when set, is required as a bearer credential on POST /decode.
	Token string `toml:"token"`
}

// Default returns the configuration used when no file is given.
func Default() DecoderConfig {
	cfg := DecoderConfig{}
	applyDefaults(&cfg)
	return cfg
}

func Load(path string) (DecoderConfig, error) {
	var cfg DecoderConfig
	if err := loadToml(path, &cfg); err != nil {
		return DecoderConfig{}, err
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return DecoderConfig{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *DecoderConfig) {
	if strings.TrimSpace(cfg.Format) == "" {
		cfg.Format = protocol.LatestVersion.String()
	}
	if strings.TrimSpace(cfg.Output) == "" {
		cfg.Output = OutputText
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config parse failed (%s): %s", path, strict.String())
		}
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func Validate(cfg DecoderConfig) error {
	if _, err := protocol.ParseVersion(cfg.Format); err != nil {
		return err
	}
	switch cfg.Output {
	case OutputText, OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %s, %s or %s, got %q", OutputText, OutputTable, OutputJSON, cfg.Output)
	}
	if cfg.MaxTxnBytes < 0 {
		return fmt.Errorf("max_txn_bytes must be >= 0, got %d", cfg.MaxTxnBytes)
	}
	if cfg.Log.Level != "" {
		if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
			return fmt.Errorf("log.level %q is not a known level", cfg.Log.Level)
		}
	}
	if _, err := cfg.ProtocolFormat(); err != nil {
		return err
	}
	return nil
}

// ProtocolFormat resolves the predefined generation named by Format and
// applies the strictness and key validation overrides.
func (c DecoderConfig) ProtocolFormat() (protocol.Format, error) {
	v, err := protocol.ParseVersion(c.Format)
	if err != nil {
		return protocol.Format{}, err
	}
	f, err := protocol.FormatFor(v)
	if err != nil {
		return protocol.Format{}, err
	}
	if c.StrictSubstateSize != nil {
		if *c.StrictSubstateSize && !f.SubstateEnvelope {
			return protocol.Format{}, fmt.Errorf("strict_substate_size requires a format with substate envelopes, %s has none", v)
		}
		f.StrictEnvelope = *c.StrictSubstateSize
	}
	f.ValidateKeys = c.ValidateKeys
	return f, f.Validate()
}

// Logging overlays the [log] table on base.
func (c DecoderConfig) Logging(base logging.Config) logging.Config {
	if lvl, ok := logging.ParseLevel(c.Log.Level); ok {
		base.Level = lvl
	}
	if c.Log.Timestamp != nil {
		base.Timestamp = *c.Log.Timestamp
	}
	if c.Log.NoColor {
		base.NoColor = true
	}
	return base
}
