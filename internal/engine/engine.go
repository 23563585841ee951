// Package engine orchestrates one Kolibri tick end to end: advance the
// digit field, aggregate and policy-filter votes, encode a fractal address,
// propose and bias a candidate expression, fit its parameters, score it
// against the benchmark suite, assemble and chain a ReasonBlock, and append
// it to the ledger (§4.7). The engine owns all per-run mutable state — the
// field, the prev-hash/prev-merkle cache and the FA window; the PRNG is
// seeded afresh from cfg.Seed XOR step on every tick — so nothing here
// relies on process-wide statics (§9's "global mutable state" design note).
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kolibri-labs/kolibri/internal/bench"
	"github.com/kolibri-labs/kolibri/internal/config"
	"github.com/kolibri-labs/kolibri/internal/dsl"
	"github.com/kolibri-labs/kolibri/internal/facodec"
	"github.com/kolibri-labs/kolibri/internal/fitter"
	"github.com/kolibri-labs/kolibri/internal/fractal"
	"github.com/kolibri-labs/kolibri/internal/hasher"
	"github.com/kolibri-labs/kolibri/internal/ledger"
	"github.com/kolibri-labs/kolibri/internal/metrics"
	"github.com/kolibri-labs/kolibri/internal/payload"
	"github.com/kolibri-labs/kolibri/internal/rng"
)

// fmtTag is the fixed format identifier written into every block's fmt
// field, recording the LOG-guard epsilon choice in the hashed payload
// (SPEC_FULL §D decision 2; the config fingerprint itself covers only the
// eight numeric knobs) so a future implementation using the permissive
// 1e-12 variant is distinguishable by tag, not silently divergent.
const fmtTag = "v1-log1e9"

// faWindowSize bounds the sliding window fed to facodec.Stability (§4.5).
const faWindowSize = 5

// Engine holds everything one run needs across ticks.
type Engine struct {
	cfg        config.Config
	fingerprint string
	field      *fractal.Field
	fractalMap *facodec.Map
	writer     *ledger.Writer
	metrics    *metrics.Collectors

	runID string

	prevHash   string
	prevMerkle string
	faWindow   []string
	nextStep   uint64
}

// New constructs an Engine bound to cfg and a ledger writer opened at
// ledgerPath. fractalMap may be nil, in which case FA-biased transforms
// collapse to the identity (§4.5). collectors may be nil, in which case
// Step skips all metrics recording.
func New(cfg config.Config, ledgerPath string, fractalMap *facodec.Map, collectors *metrics.Collectors) (*Engine, error) {
	fp, err := cfg.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("engine: fingerprint: %w", err)
	}
	w, err := ledger.OpenWriter(ledgerPath)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:         cfg,
		fingerprint: fp,
		field:       fractal.NewField(int(cfg.DepthMax), cfg.Seed),
		fractalMap:  fractalMap,
		writer:      w,
		metrics:     collectors,
		runID:       uuid.NewString(),
		prevHash:    "",
		prevMerkle:  hasher.ZeroHex,
		nextStep:    1, // genesis convention: step=1, parent=0 (SPEC_FULL §D decision 1)
	}, nil
}

// Close releases the engine's ledger handle.
func (e *Engine) Close() error {
	return e.writer.Close()
}

// RunID returns this engine's non-hashed, human-facing run identifier.
func (e *Engine) RunID() string {
	return e.runID
}

// Step runs exactly one tick (§4.7) and appends its ReasonBlock to the
// ledger. It returns the assembled block for inspection (e.g. logging by
// the caller) or a fatal error, in which case the ledger and engine state
// are left unchanged (§7 policy).
func (e *Engine) Step() (payload.Block, error) {
	start := time.Now()
	step := e.nextStep
	parent := step - 1
	seedS := e.cfg.Seed ^ step

	e.field.Tick()
	rawVotes := e.field.Aggregate()
	policy := e.cfg.Policy()
	votes := policy.Apply(rawVotes)

	softmax := voteSoftmax(votes, policy.Temperature)
	median := voteMedian(votes)

	fa := facodec.Encode(votes)
	faHistory := append(append([]string{}, e.faWindow...), fa)
	if len(faHistory) > faWindowSize {
		faHistory = faHistory[len(faHistory)-faWindowSize:]
	}
	faStab := facodec.Stability(faHistory)

	seedSource := rng.Seed(seedS)
	formula := propose(seedSource.Unit())
	formula = facodec.Apply(e.fractalMap, fa, formula)

	paramCount := formula.MaxParamIndex() + 1
	if paramCount < 0 {
		paramCount = 0
	}
	fitResult := fitter.Fit(formula, paramCount)
	eff := 1.0 / (1.0 + fitResult.MSE)
	compl := float64(formula.Complexity())

	var benchEff [10]float64
	grid := bench.Grid()
	for k, b := range bench.Suite {
		mse := fitter.MSE(formula, fitResult.Params, b.Fn, grid)
		benchEff[k] = 1.0 / (1.0 + mse)
	}

	rendered, err := dsl.Render(formula)
	if err != nil {
		return payload.Block{}, err
	}
	e.field.Remember(bestVoteRoot(votes), rendered, eff)
	memory := e.field.MemorySummary()

	block := payload.Block{
		Step:              step,
		Parent:            parent,
		Seed:              seedS,
		ConfigFingerprint: e.fingerprint,
		Fmt:               fmtTag,
		Formula:           rendered,
		ParamCount:        uint8(paramCount),
		Params:            fitResult.Params,
		Eff:               eff,
		Compl:             compl,
		Prev:              e.prevHash,
		Votes:             votes,
		VoteSoftmax:       softmax,
		VoteMedian:        median,
		Bench:             benchEff,
		Memory:            memory,
		FA:                fa,
		FAStab:            uint8(faStab),
		FAMap:             mapID(e.fractalMap),
		R:                 fractalR(rawVotes),
	}

	prefix, err := block.PayloadPrefix()
	if err != nil {
		return payload.Block{}, err
	}
	// merkle covers the payload with an empty merkle field; hash and hmac
	// cover the payload with merkle filled in, i.e. the written line's bytes.
	block.Merkle = hasher.MerkleStep(e.prevMerkle, []byte(prefix))
	prefix, err = block.PayloadPrefix()
	if err != nil {
		return payload.Block{}, err
	}
	block.Hash = hasher.SHA256Hex([]byte(prefix))
	if e.cfg.HMACKey != "" {
		block.HMAC = hasher.HMACSHA256Hex([]byte(e.cfg.HMACKey), []byte(prefix))
	}

	if err := e.writer.Append(block); err != nil {
		return payload.Block{}, err
	}

	e.prevHash = block.Hash
	e.prevMerkle = block.Merkle
	e.faWindow = faHistory
	e.nextStep++

	if e.metrics != nil {
		e.metrics.TicksTotal.Inc()
		e.metrics.TickDuration.Observe(time.Since(start).Seconds())
		e.metrics.LedgerLength.Set(float64(step))
	}

	return block, nil
}

// Run executes n ticks in sequence, stopping at the first error.
func (e *Engine) Run(n uint64) error {
	for i := uint64(0); i < n; i++ {
		if _, err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

func mapID(m *facodec.Map) string {
	if m == nil {
		return ""
	}
	return m.ID
}

// bestVoteRoot returns the index of the largest vote component, the root
// most responsible for this tick's proposal bias.
func bestVoteRoot(votes [10]float64) int {
	best := 0
	for i := 1; i < len(votes); i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}
	return best
}

// fractalR summarizes the raw (pre-policy) vote vector into the single
// scalar `r` field (§6): the mean of the ten raw aggregated votes.
func fractalR(rawVotes [10]float64) float64 {
	var sum float64
	for _, v := range rawVotes {
		sum += v
	}
	return sum / float64(len(rawVotes))
}
