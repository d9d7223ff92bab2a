package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pa55word")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pa55word", hashed)

	require.True(t, CheckPasswordHash("s3cret-pa55word", hashed))
	require.False(t, CheckPasswordHash("wrong-password", hashed))
	require.False(t, CheckPasswordHash("s3cret-pa55word", "not-a-hash"))
}
