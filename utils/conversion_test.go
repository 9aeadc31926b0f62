package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsTime(t *testing.T) {
	want := time.Date(2025, 7, 10, 18, 30, 0, 0, time.UTC)

	got, ok := AsTime(want)
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = AsTime("2025-07-10T18:30:00Z")
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = AsTime("2025-07-10T21:30:00+03:00")
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = AsTime(want.UnixMilli())
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = AsTime(float64(want.UnixMilli()))
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	_, ok = AsTime("yesterday")
	assert.False(t, ok)
	_, ok = AsTime(nil)
	assert.False(t, ok)
	_, ok = AsTime(true)
	assert.False(t, ok)
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "2025-07-10T18:30:00Z", NormalizeTimestamp("2025-07-10T21:30:00+03:00"))
	assert.Equal(t, "2025-07-10T18:30:00Z", NormalizeTimestamp(time.Date(2025, 7, 10, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, "", NormalizeTimestamp("not a timestamp"))
	assert.Equal(t, "", NormalizeTimestamp(nil))
}
