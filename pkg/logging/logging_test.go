package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, err := New("sorrel-test", "debug", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = New("sorrel-test", "loud", false)
	assert.Error(t, err)
}
