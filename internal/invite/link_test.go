package invite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStateAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil expiry means absent", func(t *testing.T) {
		require.Equal(t, LinkAbsent, StateAt(nil, now))
	})

	t.Run("seven day link is active until its expiry passes", func(t *testing.T) {
		expires := now.Add(7 * 24 * time.Hour)
		require.Equal(t, LinkActive, StateAt(&expires, now))
		require.Equal(t, LinkActive, StateAt(&expires, expires))
		require.Equal(t, LinkExpired, StateAt(&expires, expires.Add(time.Second)))
	})

	t.Run("past expiry means expired", func(t *testing.T) {
		expires := now.Add(-time.Minute)
		require.Equal(t, LinkExpired, StateAt(&expires, now))
	})
}

func TestCanCopy(t *testing.T) {
	t.Parallel()

	require.True(t, CanCopy(LinkActive))
	require.False(t, CanCopy(LinkExpired))
	require.False(t, CanCopy(LinkAbsent))
}

func TestValidExpiration(t *testing.T) {
	t.Parallel()

	for _, d := range []int{7, 15, 30} {
		require.True(t, ValidExpiration(d), "%d days", d)
	}
	for _, d := range []int{0, -7, 1, 14, 31, 365} {
		require.False(t, ValidExpiration(d), "%d days", d)
	}
	require.True(t, ValidExpiration(DefaultExpirationDays))
}

func TestURL(t *testing.T) {
	t.Parallel()

	got := URL("https://mymudarisacademy.com/invite/verify", "abc-123")
	require.Equal(t, "https://mymudarisacademy.com/invite/verify?token=abc-123", got)
}
