package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExamCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code := NewExamCode()
		require.Len(t, code, examCodeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(examCodeAlphabet, ch),
				"code %q contains %q outside the alphabet", code, ch)
		}
		seen[code] = struct{}{}
	}
	// Collisions over 200 draws from a 32^6 space would point at a
	// broken generator, not bad luck.
	assert.Greater(t, len(seen), 195)
}
