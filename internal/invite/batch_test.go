package invite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildBatch(t *testing.T) {
	t.Parallel()

	requester := "me@x.com"

	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := BuildBatch("", "", nil, requester, nil)
		require.ErrorIs(t, err, ErrNoEmails)
	})

	t.Run("delimiter-only input is rejected", func(t *testing.T) {
		_, err := BuildBatch(",,;\n", "", nil, requester, nil)
		require.ErrorIs(t, err, ErrNoEmails)
	})

	t.Run("malformed address rejects the whole batch", func(t *testing.T) {
		batch, err := BuildBatch("a@x.com, nonsense", "", nil, requester, nil)
		require.Error(t, err)
		require.Nil(t, batch)

		var invalid *InvalidEmailsError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, []string{"nonsense"}, invalid.Emails)
		require.Contains(t, err.Error(), "nonsense")
	})

	t.Run("self-invite rejected regardless of case", func(t *testing.T) {
		_, err := BuildBatch("ME@X.com", "", nil, requester, nil)
		require.ErrorIs(t, err, ErrSelfInvite)
	})

	t.Run("existing member rejected regardless of case", func(t *testing.T) {
		_, err := BuildBatch("Member@x.com", "", nil, requester, []string{"member@X.COM"})
		require.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("text and csv sources merge into one batch", func(t *testing.T) {
		batch, err := BuildBatch(
			"a@x.com;b@x.com",
			"\"b@x.com\",dup\nc@x.com,new",
			[]string{"ch-1", "ch-2"},
			requester,
			[]string{"other@x.com"},
		)
		require.NoError(t, err)
		require.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, batch.Emails)
		require.Equal(t, []string{"ch-1", "ch-2"}, batch.ChannelIDs)
	})

	t.Run("invalid csv rows do not poison the batch", func(t *testing.T) {
		batch, err := BuildBatch("", "Email,Name\na@x.com,Alice", nil, requester, nil)
		require.NoError(t, err)
		require.Equal(t, []string{"a@x.com"}, batch.Emails)
	})
}
