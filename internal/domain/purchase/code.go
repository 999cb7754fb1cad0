package purchase

import (
	"crypto/rand"
	"errors"
)

const codeLength = 20

// Codes avoid ambiguous characters so operators can type them reliably.
const codeAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789"

var ErrInvalidCode = errors.New("invalid purchase code")

// Code is the opaque token a user presents to redeem a purchase.
type Code string

func NewCode() (Code, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return Code(buf), nil
}

func ParseCode(s string) (Code, error) {
	if len(s) != codeLength {
		return "", ErrInvalidCode
	}
	for _, r := range s {
		found := false
		for _, a := range codeAlphabet {
			if r == a {
				found = true
				break
			}
		}
		if !found {
			return "", ErrInvalidCode
		}
	}
	return Code(s), nil
}

func (c Code) String() string { return string(c) }
