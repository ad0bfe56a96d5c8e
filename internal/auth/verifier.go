// Package auth turns bearer credentials into user ids.
package auth

import (
	"context" // Context for verification
	"strings" // Header parsing

	"echo_bank/internal/domain" // Domain errors
	"echo_bank/internal/utils"  // JWT parsing
)

// Verifier resolves a bearer credential to a stable user id. Implementations
// return domain.ErrUnauthorized for missing, malformed or rejected credentials.
type Verifier interface {
	Verify(ctx context.Context, credential string) (string, error)
}

// JWTVerifier accepts the HS256 tokens issued by the login endpoint.
type JWTVerifier struct {
	secret string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(_ context.Context, credential string) (string, error) {
	if credential == "" {
		return "", domain.ErrUnauthorized
	}
	claims, err := utils.ParseJWT(credential, v.secret) // Check signature, issuer and expiry
	if err != nil {
		return "", domain.ErrUnauthorized // Details stay out of the response
	}
	return claims.UserID, nil
}

// BearerToken extracts the credential from an Authorization header value.
// It returns "" when the header is absent or not a bearer header.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ") // "Bearer <token>"
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
