package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidVersion(t *testing.T) {
	assert.True(t, ValidVersion("corpus-v2026.02.0"))
	assert.True(t, ValidVersion("corpus-v2026.11.17"))

	assert.False(t, ValidVersion(""))
	assert.False(t, ValidVersion("corpus-v2026.2.0"))   // month not zero-padded
	assert.False(t, ValidVersion("corpus-v26.02.0"))    // short year
	assert.False(t, ValidVersion("v2026.02.0"))         // missing prefix
	assert.False(t, ValidVersion("corpus-v2026.02"))    // missing patch
	assert.False(t, ValidVersion("corpus-v2026.02.0a")) // trailing garbage
}

func TestCheckVersion(t *testing.T) {
	require.NoError(t, CheckVersion("corpus-v2026.02.0"))

	err := CheckVersion("latest")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBuild))
}
