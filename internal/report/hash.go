package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"
)

// HashPrefix is the fixed prefix on every fingerprint string.
const HashPrefix = "0x"

// Algorithm selects the digest construction. The caller chooses explicitly;
// the two algorithms produce the same output shape and are never comparable
// to each other.
type Algorithm string

const (
	AlgorithmSHA256    Algorithm = "sha256"
	AlgorithmKeccak256 Algorithm = "keccak256"
)

// ParseAlgorithm validates a caller-supplied algorithm name. An empty input
// defaults to SHA-256.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", AlgorithmSHA256:
		return AlgorithmSHA256, nil
	case AlgorithmKeccak256:
		return AlgorithmKeccak256, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", s)
	}
}

// Hash is a fingerprint string: HashPrefix followed by exactly 64 lowercase
// hex characters.
type Hash string

// Bytes32 decodes the fingerprint into the fixed-size form the ledger expects.
func (h Hash) Bytes32() ([32]byte, error) {
	var out [32]byte
	raw, ok := Normalize(string(h))
	if !ok {
		return out, fmt.Errorf("malformed fingerprint %q", string(h))
	}
	decoded, err := hex.DecodeString(strings.TrimPrefix(string(raw), HashPrefix))
	if err != nil {
		return out, fmt.Errorf("decode fingerprint: %w", err)
	}
	copy(out[:], decoded)
	return out, nil
}

// Sum digests data with the selected algorithm and returns the canonical
// fingerprint string.
func Sum(data []byte, algorithm Algorithm) (Hash, error) {
	switch algorithm {
	case AlgorithmSHA256:
		digest := sha256.Sum256(data)
		return Hash(HashPrefix + hex.EncodeToString(digest[:])), nil
	case AlgorithmKeccak256:
		k := sha3.NewLegacyKeccak256()
		k.Write(data)
		return Hash(HashPrefix + hex.EncodeToString(k.Sum(nil))), nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", algorithm)
	}
}

var hexBody = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Normalize is the validation predicate applied to caller-supplied hashes
// before every registration or lookup. It strips surrounding whitespace and
// quotes, applies one NFKC pass, accepts an optional 0x/0X prefix, and
// lowercases. It returns false, not an error, for any other shape.
func Normalize(input string) (Hash, bool) {
	if input == "" {
		return "", false
	}
	h := norm.NFKC.String(input)
	h = strings.TrimSpace(h)
	h = strings.Trim(h, `'"`)
	h = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, h)
	if strings.HasPrefix(h, "0x") || strings.HasPrefix(h, "0X") {
		h = h[2:]
	}
	if !hexBody.MatchString(h) {
		return "", false
	}
	return Hash(HashPrefix + strings.ToLower(h)), true
}
