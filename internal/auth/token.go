package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mariustrier/TimeTrack-sub004/internal"
)

// Claims are the fields the identity provider puts in access tokens.
type Claims struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier turns a bearer token into a Principal.
type TokenVerifier interface {
	Verify(tokenString string) (*Principal, error)
}

// JWTTokenGenerator verifies HS256 tokens against a shared secret and can mint
// tokens with the same secret for local development.
type JWTTokenGenerator struct {
	Secret   []byte
	Issuer   string
	Audience string
	Leeway   time.Duration
	TTL      time.Duration
}

func NewJWTTokenGenerator(cfg internal.SecurityConfig) *JWTTokenGenerator {
	ttl := cfg.DevTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Leeway:   cfg.ClockSkewLeeway,
		TTL:      ttl,
	}
}

func (j *JWTTokenGenerator) Verify(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, internal.ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(j.Leeway),
		jwt.WithExpirationRequired(),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	if j.Audience != "" {
		opts = append(opts, jwt.WithAudience(j.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}
	if !token.Valid {
		return nil, internal.ErrInvalidToken
	}

	role, ok := ParseRole(claims.Role)
	if !ok {
		return nil, internal.ErrInvalidToken.WithCause(fmt.Errorf("unknown role %q", claims.Role))
	}
	if claims.Subject == "" || claims.CompanyID == "" {
		return nil, internal.ErrInvalidToken.WithCause(errors.New("subject and company_id are required"))
	}

	return &Principal{
		UserID:    claims.Subject,
		CompanyID: claims.CompanyID,
		Role:      role,
		Email:     claims.Email,
	}, nil
}

// Issue signs a token for p. Only the dev token command and tests use it;
// production tokens come from the identity provider.
func (j *JWTTokenGenerator) Issue(p Principal) (string, error) {
	now := time.Now()
	claims := &Claims{
		CompanyID: p.CompanyID,
		Role:      string(p.Role),
		Email:     p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	if j.Audience != "" {
		claims.Audience = jwt.ClaimStrings{j.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}
