package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalTimeUsesOffset(t *testing.T) {
	base := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	offset := 3600
	got := LocalTime(base, &offset, time.UTC)
	require.Equal(t, 11, got.Hour())
	require.True(t, got.Equal(base))
}

func TestLocalTimeFallsBackToLocation(t *testing.T) {
	base := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	loc := time.FixedZone("test", -2*3600)
	require.Equal(t, 8, LocalTime(base, nil, loc).Hour())
	require.Equal(t, 10, LocalTime(base, nil, nil).Hour())
}
