package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

func testSigner() *JWTSigner {
	return NewJWTSigner("access-secret", "refresh-secret", "auth-service")
}

func TestJWTSigner_AccessSignAndVerify(t *testing.T) {
	t.Parallel()

	s := testSigner()
	tok, err := s.SignAccessToken("u1", "mentor", 2*time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := s.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "mentor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp.IsZero() {
		t.Fatalf("expected exp to be set")
	}
}

func TestJWTSigner_RefreshSignAndVerify(t *testing.T) {
	t.Parallel()

	s := testSigner()
	tok, err := s.SignRefreshToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	claims, err := s.VerifyRefreshToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTSigner_ClassesAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	s := testSigner()

	access, err := s.SignAccessToken("u1", "user", time.Minute)
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}
	refresh, err := s.SignRefreshToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("sign refresh: %v", err)
	}

	// an access token must never pass refresh verification and vice versa
	if _, err := s.VerifyRefreshToken(access); !domain.Is(err, "token_invalid") {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := s.VerifyAccessToken(refresh); !domain.Is(err, "token_invalid") {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestJWTSigner_RefreshTokensAreUnique(t *testing.T) {
	t.Parallel()

	s := testSigner()

	t1, err := s.SignRefreshToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	t2, err := s.SignRefreshToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	// jti makes same-second issuance distinct
	if t1 == t2 {
		t.Fatalf("two refresh tokens for the same user must differ")
	}
}

func TestJWTSigner_Expired_ReturnsTokenExpired(t *testing.T) {
	t.Parallel()

	s := testSigner()
	tok, err := s.SignAccessToken("u1", "user", -1*time.Second) // already expired
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s.VerifyAccessToken(tok)
	if !domain.Is(verr, "token_expired") {
		t.Fatalf("expected token_expired, got %v", verr)
	}

	rtok, err := s.SignRefreshToken("u1", -1*time.Second)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}
	_, verr = s.VerifyRefreshToken(rtok)
	if !domain.Is(verr, "token_expired") {
		t.Fatalf("expected token_expired, got %v", verr)
	}
}

func TestJWTSigner_WrongSecret_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s1 := NewJWTSigner("secret1", "rsecret1", "auth-service")
	s2 := NewJWTSigner("secret2", "rsecret2", "auth-service")

	tok, err := s1.SignAccessToken("u1", "user", time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s2.VerifyAccessToken(tok)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_AlgConfusion_Rejected(t *testing.T) {
	t.Parallel()

	// Create a token with "none" alg (unsigned). Verify should reject.
	claims := jwt.MapClaims{
		"uid":  "u1",
		"role": "user",
		"iss":  "auth-service",
		"sub":  "u1",
		"exp":  time.Now().Add(time.Minute).Unix(),
		"iat":  time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)

	unsigned, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected signing err: %v", err)
	}

	s := testSigner()
	_, verr := s.VerifyAccessToken(unsigned)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Garbage_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s := testSigner()

	for _, tok := range []string{"not.a.jwt", "", "a.b"} {
		if _, err := s.VerifyAccessToken(tok); !domain.Is(err, "token_invalid") {
			t.Fatalf("expected token_invalid for %q, got %v", tok, err)
		}
	}
}
