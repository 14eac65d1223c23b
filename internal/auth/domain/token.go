package domain

import "time"

// TokenPair is what login and refresh return: a short-lived access token and
// a long-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string        // typically "Bearer"
	ExpiresIn    time.Duration // until access expiry; the HTTP layer renders this as seconds
}
