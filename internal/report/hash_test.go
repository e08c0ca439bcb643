package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const abcSHA256 = "0xba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestParseAlgorithm(t *testing.T) {
	for input, want := range map[string]Algorithm{
		"":           AlgorithmSHA256,
		"sha256":     AlgorithmSHA256,
		" SHA256 ":   AlgorithmSHA256,
		"keccak256":  AlgorithmKeccak256,
		"Keccak256":  AlgorithmKeccak256,
	} {
		got, err := ParseAlgorithm(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseAlgorithm("md5")
	require.Error(t, err)
}

func TestSum(t *testing.T) {
	t.Run("sha256 known vector", func(t *testing.T) {
		h, err := Sum([]byte("abc"), AlgorithmSHA256)
		require.NoError(t, err)
		assert.Equal(t, Hash(abcSHA256), h)
	})

	t.Run("keccak256 differs from sha3-256", func(t *testing.T) {
		h, err := Sum(nil, AlgorithmKeccak256)
		require.NoError(t, err)
		// The empty-input digest of legacy Keccak, as used on Ethereum.
		assert.Equal(t, Hash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"), h)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := Sum([]byte("abc"), Algorithm("md5"))
		require.Error(t, err)
	})
}

func TestNormalize(t *testing.T) {
	body := strings.TrimPrefix(abcSHA256, "0x")
	upper := strings.ToUpper(body)

	cases := []struct {
		name  string
		input string
		want  Hash
		ok    bool
	}{
		{"canonical form", abcSHA256, Hash(abcSHA256), true},
		{"no prefix", body, Hash(abcSHA256), true},
		{"uppercase prefix and body", " 0X" + upper + " ", Hash(abcSHA256), true},
		{"single quoted", "'" + abcSHA256 + "'", Hash(abcSHA256), true},
		{"double quoted", `"` + abcSHA256 + `"`, Hash(abcSHA256), true},
		{"interior whitespace", "0x " + body[:32] + " " + body[32:], Hash(abcSHA256), true},
		{"fullwidth characters normalize", "0x" + "ｂ" + body[1:], Hash(abcSHA256), true},
		{"empty", "", "", false},
		{"too short", body[:63], "", false},
		{"too long", body + "0", "", false},
		{"non-hex", strings.Repeat("g", 64), "", false},
		{"prefix only", "0x", "", false},
		{"embedded word", "hash: " + body, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Normalize(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBytes32(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		b, err := Hash(abcSHA256).Bytes32()
		require.NoError(t, err)
		assert.Equal(t, byte(0xba), b[0])
		assert.Equal(t, byte(0xad), b[31])
	})

	t.Run("rejects malformed hash", func(t *testing.T) {
		_, err := Hash("0x1234").Bytes32()
		require.Error(t, err)
	})
}
