package invite

import (
	"errors"
	"strings"
)

var (
	ErrNoEmails      = errors.New("please enter at least one email address")
	ErrSelfInvite    = errors.New("you cannot invite yourself")
	ErrAlreadyMember = errors.New("one or more of these users are already members")
)

// InvalidEmailsError lists the malformed addresses that rejected a batch.
type InvalidEmailsError struct {
	Emails []string
}

func (e *InvalidEmailsError) Error() string {
	return "invalid email(s): " + strings.Join(e.Emails, ", ")
}

// Batch is a validated set of invitation candidates plus the private
// channels they should be added to on acceptance. It exists only between
// form input and submission.
type Batch struct {
	Emails     []string
	ChannelIDs []string
}

// BuildBatch merges free-text and CSV address sources and validates the
// result as a whole. The batch is rejected entirely when empty, when any
// address is malformed, when it contains the requester's own address, or
// when any address already belongs to a workspace member. On failure no
// partial batch is returned.
func BuildBatch(emailText, csvData string, channelIDs []string, requesterEmail string, memberEmails []string) (*Batch, error) {
	all := Merge(ParseEmails(emailText), ParseCSV(csvData))

	if len(all) == 0 {
		return nil, ErrNoEmails
	}

	var invalid []string
	for _, addr := range all {
		if !IsValidEmail(addr) {
			invalid = append(invalid, addr)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidEmailsError{Emails: invalid}
	}

	self := strings.ToLower(strings.TrimSpace(requesterEmail))
	for _, addr := range all {
		if self != "" && strings.ToLower(addr) == self {
			return nil, ErrSelfInvite
		}
	}

	members := make(map[string]bool, len(memberEmails))
	for _, m := range memberEmails {
		members[strings.ToLower(m)] = true
	}
	for _, addr := range all {
		if members[strings.ToLower(addr)] {
			return nil, ErrAlreadyMember
		}
	}

	ids := make([]string, len(channelIDs))
	copy(ids, channelIDs)

	return &Batch{Emails: all, ChannelIDs: ids}, nil
}
