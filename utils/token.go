package utils

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scheme identifies which credential issuer produced a token. Every verified
// credential carries its scheme explicitly so downstream code never has to
// re-inspect token internals.
type Scheme string

const (
	SchemeLocal    Scheme = "local"
	SchemeProvider Scheme = "provider"
)

const LocalIssuer = "agriculture-system-api"

var (
	ErrInvalidToken = errors.New("token is invalid or expired")
	ErrWrongIssuer  = errors.New("token issuer mismatch")
)

// Credential is the verified identity attached to a request.
type Credential struct {
	Scheme   Scheme
	IDNumber string
	Email    string
	Role     string
	Raw      string
}

type localClaims struct {
	IDNumber string `json:"id_number"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier verifies bearer tokens from both supported issuers: locally
// signed HS256 access tokens and provider-issued RS256 identity tokens. The
// keyfunc is the single dispatch point; each branch also pins the expected
// issuer so a token cannot masquerade as the other scheme.
type TokenVerifier struct {
	LocalSecret    []byte
	ProviderKey    *rsa.PublicKey
	ProviderIssuer string
}

// GenerateAccessToken issues a local HS256 token for the given account.
func GenerateAccessToken(secret []byte, idNumber, role string, ttl time.Duration) (string, error) {
	claims := localClaims{
		IDNumber: idNumber,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    LocalIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks the token against whichever issuer signed it and returns the
// resulting credential tagged with its scheme.
func (v *TokenVerifier) Verify(tokenString string) (*Credential, error) {
	scheme := SchemeLocal

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		switch t.Method.(type) {
		case *jwt.SigningMethodRSA:
			if v.ProviderKey == nil {
				return nil, errors.New("provider tokens not configured")
			}
			if _, ok := t.Header["kid"]; !ok {
				return nil, errors.New("provider token missing kid header")
			}
			scheme = SchemeProvider
			return v.ProviderKey, nil
		case *jwt.SigningMethodHMAC:
			return v.LocalSecret, nil
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	issuer, _ := claims.GetIssuer()
	cred := &Credential{Scheme: scheme, Raw: tokenString}

	switch scheme {
	case SchemeLocal:
		if issuer != LocalIssuer {
			return nil, ErrWrongIssuer
		}
		cred.IDNumber, _ = claims["id_number"].(string)
		cred.Role, _ = claims["role"].(string)
	case SchemeProvider:
		if v.ProviderIssuer != "" && issuer != v.ProviderIssuer {
			return nil, ErrWrongIssuer
		}
		cred.Email, _ = claims["email"].(string)
	}

	return cred, nil
}

// ParseProviderPublicKey loads the provider's RSA verification key from PEM.
func ParseProviderPublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	if len(pemBytes) == 0 {
		return nil, nil
	}
	return jwt.ParseRSAPublicKeyFromPEM(pemBytes)
}
