package upstream

import (
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var safeID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "abc123", "abc123"},
		{"hyphen and underscore", "card_42-x", "card_42-x"},
		{"surrounding whitespace", "  ws-1 \n", "ws-1"},
		{"path traversal", "../../admin", "admin"},
		{"encoded slash", "abc%2Fdef", "abc2Fdef"},
		{"query injection", "abc?x=1&y=2", "abcx1y2"},
		{"backslashes", `a\b\c`, "abc"},
		{"null byte", "abc\x00def", "abcdef"},
		{"unicode", "cärd-ünïcode", "crd-ncode"},
		{"inner spaces", "a b c", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeID("card_id", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeID_Rejects(t *testing.T) {
	for _, input := range []string{"", "..", "///", "@#$%", "....", "   ", "\x00", "ü"} {
		t.Run(input, func(t *testing.T) {
			_, err := SanitizeID("workspace_id", input)
			require.Error(t, err)

			var pve *PathValidationError
			require.True(t, errors.As(err, &pve), "expected PathValidationError, got %T", err)
			assert.Equal(t, "workspace_id", pve.Field)
			assert.Contains(t, err.Error(), "workspace_id")
		})
	}
}

func TestSanitizeID_StrippedMessage(t *testing.T) {
	_, err := SanitizeID("board_id", "../")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "letters, numbers, hyphen, or underscore")
}

func TestSanitizeID_RandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("aZ09-_./\\%?#&=@ \t\n\x00éü中😀\u202e")

	for i := 0; i < 2000; i++ {
		n := rng.Intn(16)
		var b strings.Builder
		for j := 0; j < n; j++ {
			if rng.Intn(4) == 0 {
				b.WriteRune(rune(rng.Intn(0x10FFFF)))
			} else {
				b.WriteRune(alphabet[rng.Intn(len(alphabet))])
			}
		}
		input := b.String()

		got, err := SanitizeID("id", input)
		if err != nil {
			var pve *PathValidationError
			require.True(t, errors.As(err, &pve))
			continue
		}
		require.Regexp(t, safeID, got, "input %q", input)

		again, err := SanitizeID("id", got)
		require.NoError(t, err)
		require.Equal(t, got, again, "sanitizing twice must be stable for %q", input)
	}
}

func TestBuildPath(t *testing.T) {
	path, err := buildPath(ident("workspace_id", "ws/1"), lit("cards"), ident("card_id", "../c2"))
	require.NoError(t, err)
	assert.Equal(t, "/ws1/cards/c2", path)

	_, err = buildPath(ident("workspace_id", "ws"), lit("cards"), ident("card_id", "../"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_id")
}
