package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReference(t *testing.T) {
	ref, err := GenerateReference("11111111-2222-3333-4444-555555555555")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "HT-11111111-"), "reference should carry the user-scoped prefix: %s", ref)

	parts := strings.SplitN(ref, "-", 3)
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 32, "entropy part should be 16 hex-encoded bytes")
}

func TestGenerateReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref, err := GenerateReference("11111111-2222-3333-4444-555555555555")
		require.NoError(t, err)
		require.False(t, seen[ref], "duplicate reference generated: %s", ref)
		seen[ref] = true
	}
}

func TestGenerateReferenceShortUserID(t *testing.T) {
	ref, err := GenerateReference("abc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "HT-abc-"))
}
