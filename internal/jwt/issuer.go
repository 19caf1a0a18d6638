// Package jwt issues and verifies the bearer tokens that carry identity and
// role between requests. Tokens are HS256-signed with a single process-wide
// secret loaded at startup; there is no runtime rotation.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAccessTTL applies when no TTL is configured.
const DefaultAccessTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers every verification failure: malformed token, wrong
// signature, wrong algorithm, expiry, bad issuer. Callers get no finer
// detail than this.
var ErrInvalidToken = errors.New("jwt: invalid token")

// Claims is the identity snapshot embedded in a token at issuance. Role is
// not re-read from the store within the validity window; a role change takes
// effect at the next login.
type Claims struct {
	UserID    string
	Email     string
	Name      string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

// Issuer signs and verifies tokens.
type Issuer struct {
	Iss       string
	Secret    []byte
	AccessTTL time.Duration
}

// NewIssuer builds an Issuer. The secret must be non-empty.
func NewIssuer(iss string, secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt: empty signing secret")
	}
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &Issuer{Iss: iss, Secret: secret, AccessTTL: ttl}, nil
}

// Issue mints a signed token embedding exactly one identity and one role.
func (i *Issuer) Issue(userID, email, name, role string) (token string, claims Claims, err error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)
	jti := uuid.NewString()

	mc := jwtv5.MapClaims{
		"iss":   i.Iss,
		"sub":   userID,
		"email": email,
		"name":  name,
		"role":  role,
		"jti":   jti,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   exp.Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, mc)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.Secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, Claims{UserID: userID, Email: email, Name: name, Role: role, JTI: jti, ExpiresAt: exp}, nil
}

// Parse validates the signature, algorithm, issuer and time window, and
// returns the embedded claims. Any failure collapses to ErrInvalidToken.
func (i *Issuer) Parse(token string) (Claims, error) {
	tok, err := jwtv5.Parse(token,
		func(t *jwtv5.Token) (any, error) { return i.Secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithIssuer(i.Iss),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	c := Claims{
		UserID: claimString(mc, "sub"),
		Email:  claimString(mc, "email"),
		Name:   claimString(mc, "name"),
		Role:   claimString(mc, "role"),
		JTI:    claimString(mc, "jti"),
	}
	if c.UserID == "" || c.Role == "" {
		return Claims{}, ErrInvalidToken
	}
	if expf, ok := mc["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(expf), 0)
	}
	return c, nil
}

func claimString(mc jwtv5.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return s
}
