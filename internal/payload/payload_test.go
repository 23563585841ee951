package payload

import (
	"strings"
	"testing"
)

func sample() Block {
	return Block{
		Step:              1,
		Parent:            0,
		Seed:              987654321,
		ConfigFingerprint: strings.Repeat("a", 64),
		Fmt:               "x+sin(x)",
		Formula:           "(x + sin(x))",
		ParamCount:        0,
		Params:            nil,
		Eff:               0.5,
		Compl:             3,
		Prev:              "",
		Votes:             [10]float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
		VoteSoftmax:       0.42,
		VoteMedian:        0.4,
		Bench:             [10]float64{0.2, 0.5, 0.7, 1.0, 0.3, 0.9, 0.8, 0.4, 0.6, 0.55},
		Memory:            "",
		Merkle:            strings.Repeat("0", 64),
		FA:                "0123456789",
		FAStab:            10,
		FAMap:             "",
		R:                 0.77,
	}
}

func TestFieldOrder(t *testing.T) {
	b := sample()
	prefix, err := b.PayloadPrefix()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := []string{
		`"step":`, `"parent":`, `"seed":`, `"config_fingerprint":`, `"fmt":`,
		`"formula":`, `"param_count":`, `"params":`, `"eff":`, `"compl":`,
		`"prev":`, `"votes":`, `"vote_softmax":`, `"vote_median":`, `"bench":`,
		`"memory":`, `"merkle":`, `"fa":`, `"fa_stab":`, `"fa_map":`, `"r":`,
	}
	last := -1
	for _, key := range order {
		idx := strings.Index(prefix, key)
		if idx < 0 {
			t.Fatalf("missing key %s", key)
		}
		if idx <= last {
			t.Fatalf("key %s out of order", key)
		}
		last = idx
	}
}

func TestNoSpaces(t *testing.T) {
	b := sample()
	b.Hash = strings.Repeat("b", 64)
	b.HMAC = ""
	out, err := b.CanonicalPayload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Whitespace may only occur inside string values (the rendered formula
	// "(x + sin(x))" contains spaces); none is emitted between tokens.
	inString, escaped := false, false
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ' ' || c == '\t' || c == '\n'):
			t.Fatalf("payload contains whitespace outside strings at byte %d: %s", i, out)
		}
	}
}

func TestTrailingHashHMAC(t *testing.T) {
	b := sample()
	b.Hash = strings.Repeat("c", 64)
	b.HMAC = "deadbeef"
	out, err := b.CanonicalPayload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `,"hash":"` + b.Hash + `","hmac":"deadbeef"}`
	if !strings.HasSuffix(out, want) {
		t.Fatalf("payload does not end with expected suffix: %s", out)
	}
}

func TestFormulaOverflowFatal(t *testing.T) {
	b := sample()
	b.Formula = strings.Repeat("x", 256)
	_, err := b.PayloadPrefix()
	if err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestStringEscaping(t *testing.T) {
	b := sample()
	b.Memory = "line1\nline2\"quoted\"\\slash"
	prefix, err := b.PayloadPrefix()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prefix, `\"quoted\"`) {
		t.Fatalf("quote not escaped: %s", prefix)
	}
	if !strings.Contains(prefix, `\\slash`) {
		t.Fatalf("backslash not escaped: %s", prefix)
	}
	if !strings.Contains(prefix, `\u000a`) {
		t.Fatalf("control char not escaped as \\u000a: %s", prefix)
	}
	if strings.ContainsRune(prefix, '\n') {
		t.Fatalf("raw newline leaked into payload: %s", prefix)
	}
}

func TestParamCountMismatch(t *testing.T) {
	b := sample()
	b.ParamCount = 2
	b.Params = []float64{1.0}
	if _, err := b.PayloadPrefix(); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestGenesisStepOneParentZero(t *testing.T) {
	b := sample()
	b.Step = 1
	b.Parent = 0
	prefix, err := b.PayloadPrefix()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prefix, `"step":1,`) {
		t.Fatalf("expected step:1, got %s", prefix)
	}
	if !strings.Contains(prefix, `"parent":0,`) {
		t.Fatalf("expected parent:0, got %s", prefix)
	}
}
