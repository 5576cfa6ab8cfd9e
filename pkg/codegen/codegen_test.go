package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase62_Generate(t *testing.T) {
	t.Run("invalid length", func(t *testing.T) {
		for _, length := range []int{0, -1} {
			code, err := Base62{}.Generate(length)

			assert.ErrorIs(t, err, ErrInvalidLength)
			assert.Empty(t, code)
		}
	})

	t.Run("success", func(t *testing.T) {
		seen := make(map[string]struct{})

		for i := 0; i < 100; i++ {
			code, err := Base62{}.Generate(7)
			require.NoError(t, err)

			assert.Len(t, code, 7)
			for _, r := range code {
				assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q", r)
			}
			seen[code] = struct{}{}
		}

		assert.Greater(t, len(seen), 90)
	})
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, Alphabet, 62)
}
