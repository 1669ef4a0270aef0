package tokens

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of an access token. Subject carries the username.
type AccessClaims struct {
	UID        int64  `json:"uid"`
	UniqueName string `json:"unique_name"`
	jwt.RegisteredClaims
}
