package activity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupeUniqueBatchUnchanged(t *testing.T) {
	batch := []Suggestion{{Place: "A", Activity: "a"}, {Place: "B", Activity: "b"}, {Place: "C", Activity: "c"}}
	require.Equal(t, batch, Dedupe(batch))
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	batch := []Suggestion{{Place: "A", Activity: "first"}, {Place: "A", Activity: "second"}, {Place: "B", Activity: "b"}}
	require.Equal(t, []Suggestion{{Place: "A", Activity: "first"}, {Place: "B", Activity: "b"}}, Dedupe(batch))
}

func TestDedupeIsCaseSensitive(t *testing.T) {
	batch := []Suggestion{{Place: "Central Park"}, {Place: "central park"}, {Place: "Central Park, Casablanca"}}
	require.Len(t, Dedupe(batch), 3)
}

func TestExcludeSeen(t *testing.T) {
	batch := []Suggestion{{Place: "A"}, {Place: "B"}, {Place: "C"}}
	require.Equal(t, []Suggestion{{Place: "B"}}, ExcludeSeen(batch, []string{"A", "C"}))
	require.Equal(t, batch, ExcludeSeen(batch, nil))
}
