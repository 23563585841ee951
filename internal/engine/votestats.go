package engine

import (
	"math"
	"sort"
)

const minTemperature = 1e-3

// voteSoftmax computes the temperature-weighted softmax average of votes
// (§4.7 step 4): Σ(v·exp((v-vmax)/τ)) / Σ exp((v-vmax)/τ), τ = max(temperature, 1e-3).
func voteSoftmax(votes [10]float64, temperature float64) float64 {
	tau := temperature
	if tau < minTemperature {
		tau = minTemperature
	}
	vmax := votes[0]
	for _, v := range votes[1:] {
		if v > vmax {
			vmax = v
		}
	}
	var num, denom float64
	for _, v := range votes {
		w := math.Exp((v - vmax) / tau)
		num += v * w
		denom += w
	}
	if denom == 0 {
		return 0
	}
	return num / denom
}

// voteMedian computes the weighted median of votes with weights
// max(v,0): sort by value, pick the first whose cumulative weight
// reaches half the total (§4.7 step 5).
func voteMedian(votes [10]float64) float64 {
	type wv struct {
		v, w float64
	}
	items := make([]wv, len(votes))
	var total float64
	for i, v := range votes {
		w := v
		if w < 0 {
			w = 0
		}
		items[i] = wv{v: v, w: w}
		total += w
	}
	sort.Slice(items, func(i, j int) bool { return items[i].v < items[j].v })
	if total == 0 {
		return items[0].v
	}
	var cum float64
	for _, it := range items {
		cum += it.w
		if cum >= 0.5*total {
			return it.v
		}
	}
	return items[len(items)-1].v
}
