package seeder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-crash/protocol"
)

func TestGenerate(t *testing.T) {
	Seed(11)

	event := Generate(time.Hour)
	require.NotNil(t, event.ID)
	require.NotNil(t, event.Timestamp)
	assert.True(t, event.Level.Valid())
	assert.NotEmpty(t, event.Release)
	assert.NotEmpty(t, event.Exceptions)
	assert.NotEmpty(t, event.Threads)
	require.NotNil(t, event.User)
	assert.NotEmpty(t, event.User.Email)

	device, ok := event.DeviceContext()
	require.True(t, ok)
	assert.True(t, device.Orientation.Valid())

	// the outermost exception carries the stack
	last := event.Exceptions[len(event.Exceptions)-1]
	assert.NotEmpty(t, last.Stacktrace)
}

func TestGenerate_RoundTrips(t *testing.T) {
	Seed(7)

	for i := 0; i < 20; i++ {
		event := Generate(0)
		payload, err := protocol.Marshal(event)
		require.NoError(t, err)

		decoded, err := protocol.Unmarshal(payload)
		require.NoError(t, err)

		again, err := protocol.Marshal(decoded)
		require.NoError(t, err)
		assert.Equal(t, string(payload), string(again))
	}
}

func TestGenerate_TimestampWithinSpread(t *testing.T) {
	Seed(3)

	spread := 30 * time.Minute
	lower := time.Now().Add(-spread - time.Minute)
	event := Generate(spread)
	ts := event.Timestamp.Time()
	assert.True(t, ts.After(lower), "timestamp %v older than spread", ts)
	assert.True(t, ts.Before(time.Now().Add(time.Minute)))
}
