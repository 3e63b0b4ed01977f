package application

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry reads the exp claim of a JWT-shaped bearer token without
// verifying its signature. Tokens that are not JWTs, or carry no exp claim,
// report false.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// tokenExpired reports whether token is a JWT whose exp claim is before now.
func tokenExpired(token string, now time.Time) (time.Time, bool) {
	exp, ok := tokenExpiry(token)
	if !ok {
		return time.Time{}, false
	}
	return exp, exp.Before(now)
}
