package invite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmails(t *testing.T) {
	t.Parallel()

	t.Run("mixed delimiter runs collapse", func(t *testing.T) {
		got := ParseEmails("a@x.com,,b@x.com;; c@x.com")
		require.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, got)
	})

	t.Run("newlines and semicolons split", func(t *testing.T) {
		got := ParseEmails("a@x.com\nb@x.com;c@x.com")
		require.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, got)
	})

	t.Run("no empty tokens survive", func(t *testing.T) {
		for _, input := range []string{"", ",,,", " ;\n, ", "a@x.com,\n"} {
			for _, e := range ParseEmails(input) {
				require.NotEmpty(t, e, "input %q", input)
			}
		}
	})

	t.Run("tokens are trimmed, not validated", func(t *testing.T) {
		got := ParseEmails("  not-an-email , a@x.com ")
		require.Equal(t, []string{"not-an-email", "a@x.com"}, got)
	})
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	t.Run("first column wins, quotes stripped", func(t *testing.T) {
		got := ParseCSV(`'z@x.com',other`)
		require.Equal(t, []string{"z@x.com"}, got)
	})

	t.Run("double quotes stripped", func(t *testing.T) {
		got := ParseCSV("\"a@x.com\",Alice\n\"b@x.com\",Bob")
		require.Equal(t, []string{"a@x.com", "b@x.com"}, got)
	})

	t.Run("invalid first columns are dropped silently", func(t *testing.T) {
		got := ParseCSV("Name,Email\na@x.com,Alice\nnot-an-email,Bob\n\nb@x.com")
		require.Equal(t, []string{"a@x.com", "b@x.com"}, got)
	})

	t.Run("handles CRLF line endings", func(t *testing.T) {
		got := ParseCSV("a@x.com,Alice\r\nb@x.com,Bob\r\n")
		require.Equal(t, []string{"a@x.com", "b@x.com"}, got)
	})
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("case-insensitive dedup keeps first casing", func(t *testing.T) {
		got := Merge([]string{"A@x.com", "a@x.com"}, []string{"A@x.com"})
		require.Equal(t, []string{"A@x.com"}, got)
	})

	t.Run("no two retained addresses equal under lowercase", func(t *testing.T) {
		got := Merge(
			[]string{"a@x.com", "B@x.com", "b@X.COM"},
			[]string{"A@X.com", "c@x.com"},
		)
		seen := make(map[string]bool)
		for _, e := range got {
			key := strings.ToLower(e)
			require.False(t, seen[key], "duplicate %q", e)
			seen[key] = true
		}
		require.Len(t, got, 3)
	})

	t.Run("union of disjoint sources", func(t *testing.T) {
		got := Merge([]string{"a@x.com"}, []string{"b@x.com"})
		require.Equal(t, []string{"a@x.com", "b@x.com"}, got)
	})
}

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@x.com", "first.last@sub.domain.org", "u+tag@x.co"}
	for _, e := range valid {
		require.True(t, IsValidEmail(e), e)
	}

	invalid := []string{"", "plain", "@x.com", "a@", "a@x", "a b@x.com", "a@x .com"}
	for _, e := range invalid {
		require.False(t, IsValidEmail(e), e)
	}
}
