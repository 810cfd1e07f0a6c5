package token

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("token not found")

// Token is one issued bearer credential. Only the keyed hash of the secret
// is ever stored.
type Token struct {
	ID         int64
	UserID     int64
	Name       string
	TokenHash  string
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

const separator = "|"

// Format builds the plaintext handed to the client once: "<id>|<secret>".
func Format(id int64, secret string) string {
	return strconv.FormatInt(id, 10) + separator + secret
}

// Split breaks a presented token into its record id and secret. hasID is
// false for the bare-secret form, ok is false when the value is malformed.
func Split(presented string) (id int64, secret string, hasID bool, ok bool) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return 0, "", false, false
	}

	rawID, rest, found := strings.Cut(presented, separator)
	if !found {
		return 0, presented, false, true
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 || rest == "" {
		return 0, "", false, false
	}

	return id, rest, true, true
}
