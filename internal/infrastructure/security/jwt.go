package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mentorhub/community-platform/services/auth-service/internal/application/auth"
	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// JWTSigner implements auth.TokenSigner with two independent HS256 secrets.
// A leaked access secret cannot forge refresh tokens and vice versa: the two
// token classes have disjoint trust boundaries.
type JWTSigner struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
}

func NewJWTSigner(accessSecret, refreshSecret, issuer string) *JWTSigner {
	return &JWTSigner{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
	}
}

type accessClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) SignAccessToken(userID string, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.accessSecret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	var claims accessClaims
	if err := s.verify(token, s.accessSecret, &claims); err != nil {
		return auth.TokenClaims{}, err
	}
	return auth.TokenClaims{
		UserID: claims.UserID,
		Role:   claims.Role,
		Exp:    expOf(claims.ExpiresAt),
	}, nil
}

// SignRefreshToken carries only the user id plus a unique jti, so two tokens
// issued to the same user in the same second are still distinct values.
func (s *JWTSigner) SignRefreshToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.refreshSecret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) VerifyRefreshToken(token string) (auth.TokenClaims, error) {
	var claims refreshClaims
	if err := s.verify(token, s.refreshSecret, &claims); err != nil {
		return auth.TokenClaims{}, err
	}
	return auth.TokenClaims{
		UserID: claims.UserID,
		Exp:    expOf(claims.ExpiresAt),
	}, nil
}

func (s *JWTSigner) verify(token string, secret []byte, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrTokenExpired()
		}
		return domain.ErrTokenInvalid()
	}
	if !parsed.Valid {
		return domain.ErrTokenInvalid()
	}
	return nil
}

func expOf(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
