package domain

// TokenClaims is the identity payload signed into access and refresh tokens.
type TokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// AuthTokens is the pair handed to a client after register or login.
// Only the refresh token is ever persisted (as the session key).
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
