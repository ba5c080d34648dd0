package invite

import "time"

// LinkState describes the public invite link lifecycle. A link is absent
// until generated, active until its expiry passes, then expired until it is
// revoked or replaced. Expiry is always derived from the timestamp, never
// stored.
type LinkState string

const (
	LinkAbsent  LinkState = "absent"
	LinkActive  LinkState = "active"
	LinkExpired LinkState = "expired"
)

// ExpirationDays are the selectable public link durations.
var ExpirationDays = []int{7, 15, 30}

const DefaultExpirationDays = 15

// ValidExpiration reports whether days is one of the fixed durations.
func ValidExpiration(days int) bool {
	for _, d := range ExpirationDays {
		if d == days {
			return true
		}
	}
	return false
}

// StateAt derives the link state from the record's expiry at the given time.
// A nil expiry means no record is loaded.
func StateAt(expiresAt *time.Time, now time.Time) LinkState {
	if expiresAt == nil {
		return LinkAbsent
	}
	if now.After(*expiresAt) {
		return LinkExpired
	}
	return LinkActive
}

// CanCopy reports whether the copy action is available; expired links keep
// their URL visible but disable copying.
func CanCopy(state LinkState) bool {
	return state == LinkActive
}

// URL builds the shareable join URL for a token.
func URL(baseURL, token string) string {
	return baseURL + "?token=" + token
}
