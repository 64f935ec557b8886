package auth

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ScopeRead  = "read"
	ScopeWrite = "write"
)

var (
	ErrNoSigningKey    = errors.New("private key for token signing is not configured")
	ErrInvalidSubject  = errors.New("subject must be an integer string")
	ErrMissingIssuedAt = errors.New(`token is missing the "iat" claim`)
	ErrMissingSubject  = errors.New(`token is missing the "sub" claim`)
)

// Claims carries the registered claims plus the granted scopes.
type Claims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller extracted from a verified token.
type Principal struct {
	UserID int64
	Scopes []string
}

// HasAny reports whether the principal holds at least one of scopes.
func (p Principal) HasAny(scopes ...string) bool {
	for _, s := range scopes {
		if slices.Contains(p.Scopes, s) {
			return true
		}
	}
	return false
}

// TokenManager verifies bearer tokens and, when a private key is configured,
// issues them for development use.
type TokenManager struct {
	method    jwt.SigningMethod
	verifyKey any
	signKey   any
	audience  string
}

// NewTokenManager parses the PEM keys (or the shared secret for HS*) for alg.
// privateKey may be empty; Issue then fails with ErrNoSigningKey.
func NewTokenManager(alg, publicKey, privateKey, audience string) (*TokenManager, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", alg)
	}
	publicKey, privateKey = unescapePEM(publicKey), unescapePEM(privateKey)

	tm := &TokenManager{method: method, audience: audience}
	var err error
	switch {
	case strings.HasPrefix(alg, "HS"):
		tm.verifyKey = []byte(publicKey)
		if privateKey != "" {
			tm.signKey = []byte(privateKey)
		}
	case strings.HasPrefix(alg, "ES"):
		if tm.verifyKey, err = jwt.ParseECPublicKeyFromPEM([]byte(publicKey)); err != nil {
			return nil, fmt.Errorf("auth: public key: %w", err)
		}
		if privateKey != "" {
			if tm.signKey, err = jwt.ParseECPrivateKeyFromPEM([]byte(privateKey)); err != nil {
				return nil, fmt.Errorf("auth: private key: %w", err)
			}
		}
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		if tm.verifyKey, err = jwt.ParseRSAPublicKeyFromPEM([]byte(publicKey)); err != nil {
			return nil, fmt.Errorf("auth: public key: %w", err)
		}
		if privateKey != "" {
			if tm.signKey, err = jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKey)); err != nil {
				return nil, fmt.Errorf("auth: private key: %w", err)
			}
		}
	case alg == "EdDSA":
		if tm.verifyKey, err = jwt.ParseEdPublicKeyFromPEM([]byte(publicKey)); err != nil {
			return nil, fmt.Errorf("auth: public key: %w", err)
		}
		if privateKey != "" {
			if tm.signKey, err = jwt.ParseEdPrivateKeyFromPEM([]byte(privateKey)); err != nil {
				return nil, fmt.Errorf("auth: private key: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", alg)
	}
	return tm, nil
}

// Verify checks signature, algorithm, audience and the exp/iat/sub claims.
func (tm *TokenManager) Verify(tokenStr string) (Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) { return tm.verifyKey, nil },
		jwt.WithValidMethods([]string{tm.method.Alg()}),
		jwt.WithAudience(tm.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return Principal{}, err
	}
	if claims.IssuedAt == nil {
		return Principal{}, ErrMissingIssuedAt
	}
	if claims.Subject == "" {
		return Principal{}, ErrMissingSubject
	}
	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, ErrInvalidSubject
	}
	return Principal{UserID: uid, Scopes: claims.Scopes}, nil
}

// Issue signs a token for userID valid for ttl.
func (tm *TokenManager) Issue(userID int64, scopes []string, ttl time.Duration, issuer string) (string, error) {
	if tm.signKey == nil {
		return "", ErrNoSigningKey
	}
	now := time.Now()
	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(tm.method, claims).SignedString(tm.signKey)
}

// unescapePEM lets PEM blocks be passed as single-line env values with
// literal \n separators.
func unescapePEM(s string) string {
	if strings.Contains(s, `\n`) && !strings.Contains(s, "\n") {
		return strings.ReplaceAll(s, `\n`, "\n")
	}
	return s
}
