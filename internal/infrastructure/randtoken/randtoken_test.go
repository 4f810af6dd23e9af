package randtoken

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		tok, err := New()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err, "token must be url-safe base64")
		assert.Len(t, raw, Size)
		assert.NotContains(t, tok, "=")

		_, dup := seen[tok]
		require.False(t, dup)
		seen[tok] = struct{}{}
	}
}
