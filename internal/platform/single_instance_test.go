package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSingleInstance(t *testing.T) {
	first, err := AcquireSingleInstance("StudyDeskLockTest")
	require.NoError(t, err)
	defer first.Release()

	_, err = AcquireSingleInstance("StudyDeskLockTest")
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	// A different application name hashes to a different port.
	other, err := AcquireSingleInstance("StudyDeskLockTest-Other")
	require.NoError(t, err)
	require.NoError(t, other.Release())

	// Releasing frees the port for the next instance.
	require.NoError(t, first.Release())
	again, err := AcquireSingleInstance("StudyDeskLockTest")
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	first := portFromName("StudyDesk")
	second := portFromName("StudyDesk")

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
}
