package sysmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalBytes(t *testing.T) {
	got, err := TotalBytes()
	require.NoError(t, err)
	assert.Greater(t, uint64(got), uint64(0))
}
