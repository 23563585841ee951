package fractal

// Policy is the tuple of (depth_decay, quorum, temperature) applied to raw
// votes before they drive expression construction (spec §4.3).
type Policy struct {
	DepthDecay  float64
	Quorum      float64
	Temperature float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Apply runs the five-stage vote policy over a copy of votes and returns the
// result: clamp, mix with uniform prior, quorum cut, temperature smoothing,
// re-clamp (spec §4.3). The policy's own knobs are clamped to [0,1] first.
func (p Policy) Apply(votes [10]float64) [10]float64 {
	decay := clamp01(p.DepthDecay)
	quorum := clamp01(p.Quorum)
	temp := clamp01(p.Temperature)

	var out [10]float64
	span := 1 - quorum
	for i, raw := range votes {
		v := clamp01(raw)
		v = decay*v + (1-decay)*0.5
		if v < quorum {
			v = 0
		}
		if span > 0 {
			normalized := (v - quorum) / span
			normalized = normalized*(1-temp) + 0.5*temp
			v = quorum + normalized*span
		}
		out[i] = clamp01(v)
	}
	return out
}
