package domain

import (
	"fmt"
	"strings"

	"github.com/tonkeeper/tongo"
)

const (
	AddrFormatRaw          = "raw"
	AddrFormatBouncable    = "bouncable"
	AddrFormatNonBouncable = "non-bouncable"
)

// Identity is an account reference kept in raw form ("<workchain>:<hex>") so two spellings of the
// same account compare equal.
type Identity string

// ParseIdentity accepts the raw form and the user-friendly base64url form.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrorInvalidAddress
	}

	accid, err := tongo.AccountIDFromRaw(s)
	if err != nil {
		accid, err = tongo.AccountIDFromBase64Url(s)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrorInvalidAddress, s)
	}
	return Identity(accid.ToRaw()), nil
}

// NormalizeIdentity is ParseIdentity for callers, which are authenticated by the host and may
// not be account addresses at all; those are kept verbatim.
func NormalizeIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		return Identity(strings.TrimSpace(s))
	}
	return id
}

func (id Identity) AccountID() (tongo.AccountID, error) {
	accid, err := tongo.AccountIDFromRaw(string(id))
	if err != nil {
		return tongo.AccountID{}, fmt.Errorf("%w: %q", ErrorInvalidAddress, string(id))
	}
	return accid, nil
}

// Format renders the identity as raw, bouncable or non-bouncable. Unparsable identities are
// returned as is.
func (id Identity) Format(format string, testnet bool) string {
	accid, err := id.AccountID()
	if err != nil {
		return string(id)
	}
	switch strings.ToLower(format) {
	case AddrFormatBouncable:
		return accid.ToHuman(true, testnet)
	case AddrFormatNonBouncable:
		return accid.ToHuman(false, testnet)
	}
	return accid.ToRaw()
}

func (id Identity) String() string {
	return string(id)
}
