// Package hasher provides the two primitives Kolibri's ledger is chained
// with: SHA-256 and HMAC-SHA-256 over exact byte slices. The functions here
// are deliberately thin — canonicalization happens upstream in
// internal/payload — so that the hash a verifier recomputes is always over
// the identical bytes the writer hashed.
//
// Grounded on the teacher's pkg/commitment.HashConcat/HashHex pattern: hash
// helpers take already-canonical bytes and never touch JSON themselves.
package hasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ZeroHex is 64 hex characters of zero, used to seed the rolling merkle
// field before the first block (merkle_{-1} in spec §3).
var ZeroHex = strings.Repeat("0", 64)

// SHA256Hex returns the lower-case hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HMACSHA256Hex returns the lower-case hex HMAC-SHA-256 of data keyed by
// key. Called only when an HMAC key is configured; callers must otherwise
// leave the hmac field as the empty string (§3 invariant 5).
func HMACSHA256Hex(key, data []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// MerkleStep computes the rolling merkle field: sha256(prevMerkleHex ∥ payload)
// where prevMerkleHex is the previous block's 64-hex merkle value (or
// ZeroHex before the first block), concatenated as raw ASCII bytes with the
// canonical payload bytes, per §3 invariant 7.
func MerkleStep(prevMerkleHex string, payload []byte) string {
	buf := make([]byte, 0, len(prevMerkleHex)+len(payload))
	buf = append(buf, prevMerkleHex...)
	buf = append(buf, payload...)
	return SHA256Hex(buf)
}
