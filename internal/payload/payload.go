// Package payload implements the canonical JSON serializer for a
// ReasonBlock (§3, §6). Field order, number formatting and string escaping
// are all fixed by contract: two conforming implementations must produce
// byte-identical payload bytes for the same block, since those bytes are
// what gets hashed and HMAC'd.
package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kolibri-labs/kolibri/internal/numfmt"
)

// ErrEncodingOverflow is fatal for the tick that produced it (§7): the
// engine must abort without advancing the ledger.
var ErrEncodingOverflow = errors.New("payload: encoding overflow")

// MaxPayloadLen bounds a single canonical payload, generous enough for the
// fixed schema's largest fields (formula up to 255 bytes, ten vote/bench
// doubles) plus slack; exceeding it indicates a malformed block, not a
// legitimate large one.
const MaxPayloadLen = 4096

// Block is the in-memory ReasonBlock (§3). Hash and HMAC are populated
// after PayloadPrefix is hashed, per §4.7 steps 12-13; the zero values
// participate in no serialization that needs them filled first.
type Block struct {
	Step              uint64 // first block is step=1, per the chosen genesis convention
	Parent            uint64 // always step-1; block[0]'s parent=0 is never looked up
	Seed              uint64
	ConfigFingerprint string
	Fmt               string
	Formula           string
	ParamCount        uint8
	Params            []float64
	Eff               float64
	Compl             float64
	Prev              string
	Votes             [10]float64
	VoteSoftmax       float64
	VoteMedian        float64
	Bench             [10]float64
	Memory            string
	Merkle            string
	FA                string
	FAStab            uint8
	FAMap             string
	R                 float64
	Hash              string
	HMAC              string
}

// CanonicalPayload renders b's fixed-order JSON object, including the
// trailing hash/hmac fields (§6's "object bytes up to and excluding the
// closing brace" description refers to the prefix this function's caller
// hashes before Hash/HMAC are known; see PayloadPrefix).
func (b Block) CanonicalPayload() (string, error) {
	prefix, err := b.PayloadPrefix()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(prefix)
	fmt.Fprintf(&sb, `,"hash":%s,"hmac":%s}`, jsonString(b.Hash), jsonString(b.HMAC))
	out := sb.String()
	if len(out) > MaxPayloadLen {
		return "", fmt.Errorf("%w: %d bytes", ErrEncodingOverflow, len(out))
	}
	return out, nil
}

// PayloadPrefix renders every field up to but excluding hash/hmac and the
// closing brace. This is exactly the byte sequence the engine hashes to
// produce Hash, and then HMACs to produce HMAC (§6, §4.7 steps 12-13).
func (b Block) PayloadPrefix() (string, error) {
	if len(b.Formula) > 255 {
		return "", fmt.Errorf("%w: formula length %d exceeds 255", ErrEncodingOverflow, len(b.Formula))
	}
	if int(b.ParamCount) != len(b.Params) {
		return "", fmt.Errorf("payload: param_count %d does not match %d params", b.ParamCount, len(b.Params))
	}

	params, err := doubleArray(b.Params)
	if err != nil {
		return "", err
	}
	votes, err := doubleArray(b.Votes[:])
	if err != nil {
		return "", err
	}
	bench, err := doubleArray(b.Bench[:])
	if err != nil {
		return "", err
	}
	eff, err := numfmt.Double(b.Eff)
	if err != nil {
		return "", fmt.Errorf("eff: %w", err)
	}
	compl, err := numfmt.Double(b.Compl)
	if err != nil {
		return "", fmt.Errorf("compl: %w", err)
	}
	voteSoftmax, err := numfmt.Double(b.VoteSoftmax)
	if err != nil {
		return "", fmt.Errorf("vote_softmax: %w", err)
	}
	voteMedian, err := numfmt.Double(b.VoteMedian)
	if err != nil {
		return "", fmt.Errorf("vote_median: %w", err)
	}
	r, err := numfmt.Double(b.R)
	if err != nil {
		return "", fmt.Errorf("r: %w", err)
	}

	var sb strings.Builder
	sb.WriteByte('{')
	fmt.Fprintf(&sb, `"step":%s,`, strconv.FormatUint(b.Step, 10))
	fmt.Fprintf(&sb, `"parent":%s,`, strconv.FormatUint(b.Parent, 10))
	fmt.Fprintf(&sb, `"seed":%s,`, strconv.FormatUint(b.Seed, 10))
	fmt.Fprintf(&sb, `"config_fingerprint":%s,`, jsonString(b.ConfigFingerprint))
	fmt.Fprintf(&sb, `"fmt":%s,`, jsonString(b.Fmt))
	fmt.Fprintf(&sb, `"formula":%s,`, jsonString(b.Formula))
	fmt.Fprintf(&sb, `"param_count":%s,`, strconv.FormatUint(uint64(b.ParamCount), 10))
	fmt.Fprintf(&sb, `"params":%s,`, params)
	fmt.Fprintf(&sb, `"eff":%s,`, eff)
	fmt.Fprintf(&sb, `"compl":%s,`, compl)
	fmt.Fprintf(&sb, `"prev":%s,`, jsonString(b.Prev))
	fmt.Fprintf(&sb, `"votes":%s,`, votes)
	fmt.Fprintf(&sb, `"vote_softmax":%s,`, voteSoftmax)
	fmt.Fprintf(&sb, `"vote_median":%s,`, voteMedian)
	fmt.Fprintf(&sb, `"bench":%s,`, bench)
	fmt.Fprintf(&sb, `"memory":%s,`, jsonString(b.Memory))
	fmt.Fprintf(&sb, `"merkle":%s,`, jsonString(b.Merkle))
	fmt.Fprintf(&sb, `"fa":%s,`, jsonString(b.FA))
	fmt.Fprintf(&sb, `"fa_stab":%s,`, strconv.FormatUint(uint64(b.FAStab), 10))
	fmt.Fprintf(&sb, `"fa_map":%s,`, jsonString(b.FAMap))
	fmt.Fprintf(&sb, `"r":%s`, r)

	return sb.String(), nil
}

func doubleArray(vs []float64) (string, error) {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			sb.WriteByte(',')
		}
		s, err := numfmt.Double(v)
		if err != nil {
			return "", fmt.Errorf("array[%d]: %w", i, err)
		}
		sb.WriteString(s)
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// jsonString renders s as a JSON string literal, escaping `"`, `\` and
// control characters below 0x20 as \uXXXX; other bytes pass through
// verbatim (§6).
func jsonString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r < 0x20:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
