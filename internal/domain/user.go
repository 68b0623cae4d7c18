// Package domain contains entity without logic, just meta-data
package domain

import "strconv"

const MaxUsernameLen = 50

type UserID int64

func (id UserID) String() string { return strconv.FormatInt(int64(id), 10) }

// Identity is the principal a credential resolves to.
type Identity struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NewIdentity is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewIdentity(id UserID, username string) (Identity, error) {
	if id <= 0 {
		return Identity{}, ErrUnauthorized
	}
	if len(username) > MaxUsernameLen {
		username = username[:MaxUsernameLen]
	}
	return Identity{ID: id, Username: username}, nil
}
