package config

import "encoding/json"

// Snapshot is the human-readable, one-shot config dump described in §4.9:
// source path, whether it actually loaded, the canonical JSON string used
// for fingerprinting, and the fingerprint itself. This file is informational
// only — it is never read back by the engine and never participates in the
// hashed ledger payload.
type Snapshot struct {
	Source         string `json:"source"`
	LoadedFromFile bool   `json:"loaded_from_file"`
	CanonicalJSON  string `json:"canonical_json"`
	Fingerprint    string `json:"fingerprint"`
	RunID          string `json:"run_id,omitempty"`
}

// BuildSnapshot assembles a Snapshot for cfg as loaded via src, optionally
// stamped with runID (see internal/engine's use of google/uuid for a
// human-facing, non-hashed run identifier).
func BuildSnapshot(cfg Config, src Source, runID string) (Snapshot, error) {
	canon, err := cfg.CanonicalJSON()
	if err != nil {
		return Snapshot{}, err
	}
	fp, err := cfg.Fingerprint()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Source:         src.Path,
		LoadedFromFile: src.Loaded,
		CanonicalJSON:  canon,
		Fingerprint:    fp,
		RunID:          runID,
	}, nil
}

// MarshalPretty renders the snapshot as indented JSON for the on-disk file.
func (s Snapshot) MarshalPretty() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
