// Package config loads Kolibri's tunable knobs and computes their
// canonical-JSON fingerprint (§4.9). Loading follows the teacher's two
// on-disk conventions: a flag/env-overridable struct
// (pkg/config/config.go) and a YAML file with env-var substitution
// (pkg/config/anchor_config.go) — here unified into one loader that
// sniffs JSON vs YAML and always allows KOLIBRI_HMAC_KEY to override the
// in-file secret.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kolibri-labs/kolibri/internal/fractal"
)

// ErrConfigParse is a non-fatal warning per spec §7: the defaults are used
// and the source is recorded as "not loaded".
var ErrConfigParse = errors.New("config: file unreadable or malformed")

// Config holds the eight fingerprinted knobs (steps among them) plus the
// non-fingerprinted hmac key and salt. Field names match
// spec §4.9 / §6 exactly where they are fingerprinted.
type Config struct {
	Steps        uint64  `json:"steps" yaml:"steps"`
	DepthMax     uint64  `json:"depth_max" yaml:"depth_max"`
	DepthDecay   float64 `json:"depth_decay" yaml:"depth_decay"`
	Quorum       float64 `json:"quorum" yaml:"quorum"`
	Temperature  float64 `json:"temperature" yaml:"temperature"`
	EffThreshold float64 `json:"eff_threshold" yaml:"eff_threshold"`
	MaxComplex   float64 `json:"max_complexity" yaml:"max_complexity"`
	Seed         uint64  `json:"seed" yaml:"seed"`

	HMACKey  string `json:"hmac_key" yaml:"hmac_key"`
	HMACSalt string `json:"hmac_salt" yaml:"hmac_salt"`
}

// Defaults returns the spec §6 default configuration.
func Defaults() Config {
	return Config{
		Steps:        30,
		DepthMax:     2,
		DepthDecay:   0.7,
		Quorum:       0.6,
		Temperature:  0.15,
		EffThreshold: 0.8,
		MaxComplex:   32.0,
		Seed:         987654321,
	}
}

// Source describes where a loaded configuration came from, for the
// human-readable snapshot file.
type Source struct {
	Path       string
	Loaded     bool
	ParseError string
}

// Load reads path (JSON or YAML, sniffed from the first non-space byte)
// into cfg, applying the KOLIBRI_HMAC_KEY environment override afterward.
// On any read/parse failure it returns the defaults and a non-nil Source
// with Loaded=false and ErrConfigParse wrapped with context — this is a
// warning per §7, never fatal; the caller decides whether to log it.
func Load(path string) (Config, Source, error) {
	cfg := Defaults()
	src := Source{Path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		src.ParseError = "not loaded"
		applyEnvOverrides(&cfg)
		return cfg, src, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	parsed := cfg
	if err := decodeInto(raw, &parsed); err != nil {
		src.ParseError = "not loaded"
		applyEnvOverrides(&cfg)
		return cfg, src, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	cfg = parsed
	src.Loaded = true
	applyEnvOverrides(&cfg)
	return cfg, src, nil
}

func decodeInto(raw []byte, cfg *Config) error {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return json.Unmarshal(raw, cfg)
	}
	return yaml.Unmarshal(raw, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if key := strings.TrimSpace(os.Getenv("KOLIBRI_HMAC_KEY")); key != "" {
		cfg.HMACKey = key
	}
}

// Policy derives the fractal vote policy from the loaded configuration.
func (c Config) Policy() fractal.Policy {
	return fractal.Policy{
		DepthDecay:  c.DepthDecay,
		Quorum:      c.Quorum,
		Temperature: c.Temperature,
	}
}
