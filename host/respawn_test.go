package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespawnRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := Respawn(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRespawnGivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	err := Respawn(func() error {
		attempts++
		return errors.New("permanent")
	}, 2, nil)
	require.Error(t, err)
	assert.Equal(t, 3, attempts) // 1 initial attempt + 2 retries
}
