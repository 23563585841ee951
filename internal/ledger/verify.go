package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kolibri-labs/kolibri/internal/hasher"
)

// ErrChainInvalid reports a verification failure, carrying the step index
// at which it was detected and a human-readable reason (§7).
type ErrChainInvalid struct {
	Step   int
	Reason string
}

func (e *ErrChainInvalid) Error() string {
	return fmt.Sprintf("ledger: chain invalid at step %d: %s", e.Step, e.Reason)
}

// wireBlock mirrors the canonical payload's field set for strict decoding.
// encoding/json ignores key order on decode, which is fine here: only the
// encoder (payload.Block.CanonicalPayload) needs to fix field order, since
// that is what gets hashed.
type wireBlock struct {
	Step              uint64    `json:"step"`
	Parent            uint64    `json:"parent"`
	Seed              uint64    `json:"seed"`
	ConfigFingerprint string    `json:"config_fingerprint"`
	Fmt               string    `json:"fmt"`
	Formula           string    `json:"formula"`
	ParamCount        uint8     `json:"param_count"`
	Params            []float64 `json:"params"`
	Eff               float64   `json:"eff"`
	Compl             float64   `json:"compl"`
	Prev              string    `json:"prev"`
	Votes             [10]float64 `json:"votes"`
	VoteSoftmax       float64   `json:"vote_softmax"`
	VoteMedian        float64   `json:"vote_median"`
	Bench             [10]float64 `json:"bench"`
	Memory            string    `json:"memory"`
	Merkle            string    `json:"merkle"`
	FA                string    `json:"fa"`
	FAStab            uint8     `json:"fa_stab"`
	FAMap             string    `json:"fa_map"`
	R                 float64   `json:"r"`
	Hash              string    `json:"hash"`
	HMAC              string    `json:"hmac"`
}

func decodeStrict(line string) (wireBlock, error) {
	var wb wireBlock
	dec := json.NewDecoder(strings.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wb); err != nil {
		return wireBlock{}, err
	}
	return wb, nil
}

// Options configures Verify's expectations for the key material and salt
// (§4.8: "if the key is configured but hmac is empty, verification fails").
type Options struct {
	HMACKey string // empty means unauthenticated
	Salt    string // optional; not checked by Verify, since the block schema has no salt field
}

// Result summarizes a successful verification run.
type Result struct {
	Blocks int
}

// Verify replays lines (as read by ReadLines) and checks every invariant
// from §3/§4.8/§8 P2-P8: parse, prev-hash chain, hash recompute, hmac
// recompute/presence, step monotonicity, parent linkage, merkle chain.
// It stops at the first failure and returns *ErrChainInvalid.
func Verify(lines []string, opts Options) (Result, error) {
	prevHash := ""
	prevMerkle := hasher.ZeroHex
	var expectedStep uint64
	first := true

	for i, line := range lines {
		wb, err := decodeStrict(line)
		if err != nil {
			return Result{}, &ErrChainInvalid{Step: i, Reason: fmt.Sprintf("parse error: %v", err)}
		}

		if first {
			expectedStep = wb.Step
			first = false
		}
		if wb.Step != expectedStep {
			return Result{}, &ErrChainInvalid{Step: i, Reason: "step non-monotone"}
		}
		wantParent := wb.Step - 1
		if wb.Parent != wantParent {
			return Result{}, &ErrChainInvalid{Step: i, Reason: "parent mismatch"}
		}

		if i == 0 {
			if wb.Prev != "" {
				return Result{}, &ErrChainInvalid{Step: i, Reason: "prev mismatch: expected empty"}
			}
		} else if wb.Prev != prevHash {
			return Result{}, &ErrChainInvalid{Step: i, Reason: "prev mismatch"}
		}

		prefix, hashField, hmacField, err := splitPayload(line)
		if err != nil {
			return Result{}, &ErrChainInvalid{Step: i, Reason: fmt.Sprintf("parse error: %v", err)}
		}
		if hasher.SHA256Hex([]byte(prefix)) != hashField {
			return Result{}, &ErrChainInvalid{Step: i, Reason: "hash mismatch"}
		}

		if opts.HMACKey != "" {
			if hmacField == "" {
				return Result{}, &ErrChainInvalid{Step: i, Reason: "missing hmac with configured key"}
			}
			want := hasher.HMACSHA256Hex([]byte(opts.HMACKey), []byte(prefix))
			if want != hmacField {
				return Result{}, &ErrChainInvalid{Step: i, Reason: "hmac mismatch"}
			}
		} else if hmacField != "" {
			return Result{}, &ErrChainInvalid{Step: i, Reason: "unexpected hmac without key"}
		}

		// merkle is computed over the payload with its own field left empty.
		unmerkled := strings.Replace(prefix, `"merkle":"`+wb.Merkle+`"`, `"merkle":""`, 1)
		wantMerkle := hasher.MerkleStep(prevMerkle, []byte(unmerkled))
		if wb.Merkle != wantMerkle {
			return Result{}, &ErrChainInvalid{Step: i, Reason: "merkle mismatch"}
		}

		prevHash = wb.Hash
		prevMerkle = wb.Merkle
		expectedStep++
	}

	return Result{Blocks: len(lines)}, nil
}

// splitPayload separates a canonical payload line into the hashed prefix
// (everything up to and excluding the closing brace, with hash/hmac
// stripped) and the declared hash/hmac fields, by locating the fixed
// `,"hash":"...","hmac":"..."}` suffix (§6). This relies on the encoder's
// guarantee that hash/hmac are always the final two fields.
func splitPayload(line string) (prefix, hash, hmacVal string, err error) {
	const hashKey = `,"hash":"`
	idx := strings.LastIndex(line, hashKey)
	if idx < 0 {
		return "", "", "", errors.New("missing hash field")
	}
	prefix = line[:idx]
	rest := line[idx+len(hashKey):]
	endHash := strings.IndexByte(rest, '"')
	if endHash < 0 {
		return "", "", "", errors.New("malformed hash field")
	}
	hash = rest[:endHash]
	rest = rest[endHash+1:]
	const hmacKey = `,"hmac":"`
	if len(rest) < len(hmacKey) || rest[:len(hmacKey)] != hmacKey {
		return "", "", "", errors.New("malformed hmac field")
	}
	rest = rest[len(hmacKey):]
	if len(rest) < 2 || rest[len(rest)-2:] != `"}` {
		return "", "", "", errors.New("malformed line terminator")
	}
	hmacVal = rest[:len(rest)-2]
	return prefix, hash, hmacVal, nil
}
