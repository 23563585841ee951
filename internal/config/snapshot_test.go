package config

import (
	"encoding/json"
	"testing"
)

func TestBuildSnapshotFields(t *testing.T) {
	cfg := Defaults()
	src := Source{Path: "kolibri.yaml", Loaded: true}
	snap, err := BuildSnapshot(cfg, src, "run-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Source != "kolibri.yaml" {
		t.Fatalf("got source %q, want %q", snap.Source, "kolibri.yaml")
	}
	if !snap.LoadedFromFile {
		t.Fatalf("expected LoadedFromFile=true")
	}
	if snap.RunID != "run-123" {
		t.Fatalf("got run id %q, want %q", snap.RunID, "run-123")
	}
	wantCanon, _ := cfg.CanonicalJSON()
	if snap.CanonicalJSON != wantCanon {
		t.Fatalf("got canonical json %q, want %q", snap.CanonicalJSON, wantCanon)
	}
	wantFP, _ := cfg.Fingerprint()
	if snap.Fingerprint != wantFP {
		t.Fatalf("got fingerprint %q, want %q", snap.Fingerprint, wantFP)
	}
}

func TestBuildSnapshotDefaultsUnloaded(t *testing.T) {
	cfg := Defaults()
	snap, err := BuildSnapshot(cfg, Source{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.LoadedFromFile {
		t.Fatalf("expected LoadedFromFile=false for zero Source")
	}
	if snap.Source != "" {
		t.Fatalf("expected empty source, got %q", snap.Source)
	}
}

func TestMarshalPrettyRoundTrips(t *testing.T) {
	cfg := Defaults()
	snap, err := BuildSnapshot(cfg, Source{Path: "x.json", Loaded: true}, "run-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := snap.MarshalPretty()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != snap {
		t.Fatalf("got %+v, want %+v", decoded, snap)
	}
}

func TestMarshalPrettyOmitsEmptyRunID(t *testing.T) {
	cfg := Defaults()
	snap, err := BuildSnapshot(cfg, Source{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := snap.MarshalPretty()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["run_id"]; present {
		t.Fatalf("expected run_id to be omitted when empty, got %v", raw)
	}
}
