package invite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectionToggle(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	require.Zero(t, s.Len())

	s.Toggle("ch-1")
	require.True(t, s.Has("ch-1"))

	s.Toggle("ch-2")
	require.Equal(t, []string{"ch-1", "ch-2"}, s.IDs())

	// Toggling an existing channel removes it.
	s.Toggle("ch-1")
	require.False(t, s.Has("ch-1"))
	require.Equal(t, []string{"ch-2"}, s.IDs())
}

func TestFilterPrivate(t *testing.T) {
	t.Parallel()

	channels := []Channel{
		{ID: "1", Name: "general", Visibility: "public"},
		{ID: "2", Name: "Staff Room", Visibility: "private"},
		{ID: "3", Name: "homework-help", Visibility: "private"},
	}

	t.Run("public channels are excluded", func(t *testing.T) {
		got := FilterPrivate(channels, "")
		require.Len(t, got, 2)
		for _, ch := range got {
			require.Equal(t, "private", ch.Visibility)
		}
	})

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		got := FilterPrivate(channels, "STAFF")
		require.Len(t, got, 1)
		require.Equal(t, "2", got[0].ID)
	})

	t.Run("no match yields empty result without mutating input", func(t *testing.T) {
		got := FilterPrivate(channels, "zzz")
		require.Empty(t, got)
		require.Len(t, channels, 3)
	})

	t.Run("filtering does not touch an existing selection", func(t *testing.T) {
		s := NewSelection()
		s.Toggle("2")
		_ = FilterPrivate(channels, "homework")
		require.True(t, s.Has("2"))
	})
}
