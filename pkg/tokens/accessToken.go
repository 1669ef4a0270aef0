package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Signer mints and verifies HS256 access tokens for one issuer/audience pair.
type Signer struct {
	Secret   []byte
	Issuer   string
	Audience string
	Duration time.Duration
}

func (s Signer) NewAccessToken(userID int64, username string, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.Duration)
	claims := AccessClaims{
		UID:        userID,
		UniqueName: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{s.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        strconv.FormatInt(now.UnixNano(), 36),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s Signer) Parse(tokenStr string) (*AccessClaims, error) {
	return AccessClaimsFromToken(tokenStr, s.Secret,
		jwt.WithIssuer(s.Issuer),
		jwt.WithAudience(s.Audience),
	)
}

func AccessClaimsFromToken(tokenStr string, secret []byte, opts ...jwt.ParserOption) (*AccessClaims, error) {
	var claims AccessClaims
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
