package managers

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenScopeAccess marks tokens that authenticate API calls.
	TokenScopeAccess = "access_token"
	// TokenScopeEmail marks tokens that authorize a one-time email confirmation.
	TokenScopeEmail = "email_token"

	issuer        = "contact-hub"
	emailTokenTTL = 24 * time.Hour
)

// JWTMgr issues and validates the two token kinds the server uses. Tokens are
// stateless: validity derives from signature and expiry alone.
type JWTMgr interface {
	GenerateAccessToken(email string) (string, error)
	GenerateEmailToken(email string) (string, error)
	ValidateToken(tokenString string) (jwt.MapClaims, error)
}

// JWTManager signs tokens with a server-held HMAC secret.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTManager creates a new JWTManager with the given signing secret and
// access token lifetime.
func NewJWTManager(secret string, accessTTL time.Duration) JWTMgr {
	return &JWTManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// GenerateAccessToken issues a short-lived token authenticating API calls for
// the user identified by email.
func (jm *JWTManager) GenerateAccessToken(email string) (string, error) {
	return jm.generate(email, TokenScopeAccess, jm.accessTTL)
}

// GenerateEmailToken issues a 24-hour token authorizing the confirmation of
// the given email address.
func (jm *JWTManager) GenerateEmailToken(email string) (string, error) {
	return jm.generate(email, TokenScopeEmail, emailTokenTTL)
}

func (jm *JWTManager) generate(email, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   issuer,
		"sub":   email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"scope": scope,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// ValidateToken verifies signature and expiry and returns the claims.
// It does not check the scope claim; callers must match it against the
// operation they are performing.
func (jm *JWTManager) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}

		return jm.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// TokenSubject extracts the subject email from validated claims.
func TokenSubject(claims jwt.MapClaims) (string, error) {
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return subject, nil
}

// TokenScope extracts the scope claim from validated claims.
func TokenScope(claims jwt.MapClaims) string {
	scope, _ := claims["scope"].(string)
	return scope
}
