package auth

import "tessera/internal/domain/models"

// JWTVerifier validates bearer tokens. The middleware only needs this
// surface; how keys are fetched and cached is an implementation detail.
type JWTVerifier interface {
	// VerifyToken validates a JWT string and returns its claims, or an
	// error if the token is invalid, expired, or badly signed.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases resources held by the verifier.
	Close() error
}
