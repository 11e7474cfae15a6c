// Package token keeps the bearer token in persistent storage and answers the
// one question the rest of the client asks about it: may it still be used?
//
// The token is a JWT. Its payload is decoded without signature verification
// (the client has no key and only needs the expiry); any structural problem
// makes the token count as expired. Decode errors never leave this package
// other than as ErrMalformed.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed marks a token whose structure or payload cannot be decoded,
// or whose payload carries no numeric exp claim.
var ErrMalformed = errors.New("malformed token")

// Claims is the decoded token payload the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	// IssuedAt is zero when the token has no iat claim.
	IssuedAt time.Time
}

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode reads the payload segment of raw. The header and signature are
// not inspected, so an unknown or missing alg does not matter. Claims other
// than exp are best effort: a sub or iat of the wrong type is left zero.
func Decode(raw string) (Claims, error) {
	segs := strings.Split(raw, ".")
	if len(segs) != 3 {
		return Claims{}, fmt.Errorf("%w: %d segments", ErrMalformed, len(segs))
	}
	payload, err := parser.DecodeSegment(segs[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	mc := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if exp == nil {
		return Claims{}, fmt.Errorf("%w: no exp claim", ErrMalformed)
	}

	c := Claims{ExpiresAt: exp.Time}
	c.Subject, _ = mc.GetSubject()
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, nil
}

// IsExpired reports whether raw is unusable at now: malformed, or its expiry
// is not strictly after now.
func IsExpired(raw string, now time.Time) bool {
	c, err := Decode(raw)
	if err != nil {
		return true
	}
	return !c.ExpiresAt.After(now)
}
