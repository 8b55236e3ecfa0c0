package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for refresh tokens
    "encoding/hex"  // hex encoding of random bytes and digests
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned by ParseAccessToken for any token that fails
// signature, algorithm, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid access token")

// AccessClaims are the claims carried by an access token.  The subject is
// the user id; the username is carried so that audit entries can name the
// actor without a lookup.
type AccessClaims struct {
    Username string `json:"username"`
    Role     string `json:"role"`
    jwt.RegisteredClaims
}

// AccessToken is a signed JWT and its expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken is a long-lived opaque token.  Only its SHA-256 hash is
// persisted; Raw goes back to the client once.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewAccessToken signs an HS256 JWT for the user valid for ttl.
func NewAccessToken(secret, userID, username, role string, ttl time.Duration) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := AccessClaims{
        Username: username,
        Role:     role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   userID,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and returns its claims.  Only
// HMAC-signed tokens with a subject are accepted.
func ParseAccessToken(secret, raw string) (AccessClaims, error) {
    var claims AccessClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return AccessClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    if claims.Subject == "" {
        return AccessClaims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
    }
    return claims, nil
}

// NewRefreshToken returns a random 96-character token valid for ttl.
func NewRefreshToken(ttl time.Duration) (RefreshToken, error) {
    raw, err := randomHex(48)
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Raw: raw, Exp: time.Now().UTC().Add(ttl)}, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
