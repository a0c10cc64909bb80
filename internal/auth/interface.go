package auth

// ActorVerifier validates a bearer token and returns the acting user's id.
type ActorVerifier interface {
	// VerifyToken validates the token and returns the subject claim.
	VerifyToken(tokenString string) (string, error)

	// Close releases resources held by the verifier.
	Close() error
}
