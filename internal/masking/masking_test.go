package masking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskDeterministic(t *testing.T) {
	a := Mask("042345678", "pepper")
	b := Mask("042345678", "pepper")
	assert.Equal(t, a, b)
	assert.Len(t, a, TokenLength)
}

func TestMaskMatchesSaltThenRaw(t *testing.T) {
	sum := sha256.Sum256([]byte("pepper" + "042345678"))
	assert.Equal(t, hex.EncodeToString(sum[:]), Mask("042345678", "pepper"))
}

func TestMaskSaltChangesToken(t *testing.T) {
	assert.NotEqual(t, Mask("042345678", "a"), Mask("042345678", "b"))
}

func TestMaskDistinctAndOpaque(t *testing.T) {
	seen := make(map[string]string, 2000)
	for n := 2000000; n < 2002000; n++ {
		raw := fmt.Sprintf("04%d", n)
		tok := Mask(raw, "pepper")
		require.NotContains(t, tok, raw)
		if prev, ok := seen[tok]; ok {
			t.Fatalf("collision between %s and %s", prev, raw)
		}
		seen[tok] = raw
	}
}

func TestMaskEmptyInputs(t *testing.T) {
	tok := Mask("", "")
	assert.Len(t, tok, TokenLength)
	assert.Equal(t, strings.ToLower(tok), tok)
}

func TestCheckSalt(t *testing.T) {
	tests := []struct {
		name string
		salt string
		want error
	}{
		{name: "empty", salt: "", want: ErrPlaceholderSalt},
		{name: "placeholder", salt: PlaceholderSalt, want: ErrPlaceholderSalt},
		{name: "real", salt: "9f1c-secret", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, CheckSalt(tt.salt), tt.want)
		})
	}
}

func TestOrPlaceholder(t *testing.T) {
	assert.Equal(t, PlaceholderSalt, OrPlaceholder(""))
	assert.Equal(t, "x", OrPlaceholder("x"))
}
