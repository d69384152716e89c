package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

// Verifier validates bearer tokens and service keys presented by
// callers. Tokens are HMAC-signed by the identity service with a
// shared secret; service keys are compared against a bcrypt hash.
type Verifier struct {
	secret         []byte
	serviceKeyHash []byte
}

// NewVerifier constructs a Verifier.
func NewVerifier(secret, serviceKeyHash string) *Verifier {
	return &Verifier{secret: []byte(secret), serviceKeyHash: []byte(serviceKeyHash)}
}

// ParseToken verifies raw and extracts the principal. Every failure is
// reported as shared.ErrInvalidToken; callers do not need to
// distinguish expired from malformed.
func (v *Verifier) ParseToken(raw string) (*shared.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, shared.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, shared.ErrInvalidToken
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, shared.ErrInvalidToken
	}

	return &shared.Principal{
		UserID:        userID,
		TenantID:      tenantID,
		Role:          access.Role(claims.Role),
		Impersonating: claims.Impersonating,
	}, nil
}

// VerifyServiceKey checks a platform service key against the
// configured bcrypt hash.
func (v *Verifier) VerifyServiceKey(key string) error {
	if len(v.serviceKeyHash) == 0 {
		return shared.ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword(v.serviceKeyHash, []byte(key)); err != nil {
		return shared.ErrInvalidToken
	}
	return nil
}
