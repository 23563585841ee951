package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kolibri-labs/kolibri/internal/hasher"
	"github.com/kolibri-labs/kolibri/internal/numfmt"
)

// CanonicalJSON renders the eight fingerprinted knobs as canonical JSON in
// lexicographic key order with no spaces, per §4.9. depth_max, seed and
// steps are integral fields and print without a decimal point; the rest
// go through the same %.17g-equivalent formatter as every other ledger
// double.
func (c Config) CanonicalJSON() (string, error) {
	var sb strings.Builder
	sb.WriteByte('{')

	depthDecay, err := numfmt.Double(c.DepthDecay)
	if err != nil {
		return "", fmt.Errorf("depth_decay: %w", err)
	}
	effThreshold, err := numfmt.Double(c.EffThreshold)
	if err != nil {
		return "", fmt.Errorf("eff_threshold: %w", err)
	}
	maxComplexity, err := numfmt.Double(c.MaxComplex)
	if err != nil {
		return "", fmt.Errorf("max_complexity: %w", err)
	}
	quorum, err := numfmt.Double(c.Quorum)
	if err != nil {
		return "", fmt.Errorf("quorum: %w", err)
	}
	temperature, err := numfmt.Double(c.Temperature)
	if err != nil {
		return "", fmt.Errorf("temperature: %w", err)
	}

	fmt.Fprintf(&sb, `"depth_decay":%s,`, depthDecay)
	fmt.Fprintf(&sb, `"depth_max":%s,`, strconv.FormatUint(c.DepthMax, 10))
	fmt.Fprintf(&sb, `"eff_threshold":%s,`, effThreshold)
	fmt.Fprintf(&sb, `"max_complexity":%s,`, maxComplexity)
	fmt.Fprintf(&sb, `"quorum":%s,`, quorum)
	fmt.Fprintf(&sb, `"seed":%s,`, strconv.FormatUint(c.Seed, 10))
	fmt.Fprintf(&sb, `"steps":%s,`, strconv.FormatUint(c.Steps, 10))
	fmt.Fprintf(&sb, `"temperature":%s`, temperature)

	sb.WriteByte('}')
	return sb.String(), nil
}

// Fingerprint returns the lower-case hex SHA-256 of CanonicalJSON(), bound
// into every ReasonBlock written during this configuration's lifetime
// (§3 invariant 6, P8).
func (c Config) Fingerprint() (string, error) {
	canon, err := c.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return hasher.SHA256Hex([]byte(canon)), nil
}
