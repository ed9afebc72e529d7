package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rttrailserver/internal/domain"
)

// TokenData is the claim payload of a bearer access token, before the
// time-dependent iat/exp claims are applied at signing time.
type TokenData struct {
	Sub    string
	Scopes string
	Iss    string
	Aud    string
	CID    string
	Nonce  string
}

type accessClaims struct {
	Scopes string `json:"scopes,omitempty"`
	CID    string `json:"cid,omitempty"`
	Nonce  string `json:"nonce,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 access tokens with a shared secret.
// A missing secret is a configuration error caught at construction, not a
// per-request failure.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration, now func() time.Time) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be > 0")
	}
	if now == nil {
		now = time.Now
	}
	secretCopy := make([]byte, len(secret))
	copy(secretCopy, secret)
	return &TokenCodec{secret: secretCopy, ttl: ttl, now: now}, nil
}

// Issue signs data, stamping iat with the current time and exp with the
// configured TTL.
func (c *TokenCodec) Issue(data TokenData) (string, error) {
	now := c.now()
	claims := accessClaims{
		Scopes: data.Scopes,
		CID:    data.CID,
		Nonce:  data.Nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   data.Sub,
			Issuer:    data.Iss,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	if data.Aud != "" {
		claims.Audience = jwt.ClaimStrings{data.Aud}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse decodes and validates a token string. It fails with
// domain.ErrTokenExpired when exp has passed, domain.ErrTokenMalformed when
// the signature or structure is invalid, and domain.ErrTokenInvalid when the
// payload decodes but violates the claim schema (missing sub).
func (c *TokenCodec) Parse(tokenString string) (TokenData, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenData{}, domain.ErrTokenExpired
		}
		return TokenData{}, domain.ErrTokenMalformed
	}
	if claims.Subject == "" {
		return TokenData{}, domain.ErrTokenInvalid
	}

	data := TokenData{
		Sub:    claims.Subject,
		Scopes: claims.Scopes,
		Iss:    claims.Issuer,
		CID:    claims.CID,
		Nonce:  claims.Nonce,
	}
	if len(claims.Audience) > 0 {
		data.Aud = claims.Audience[0]
	}
	return data, nil
}
