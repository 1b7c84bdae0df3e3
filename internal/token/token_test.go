package token

import (
	"errors"
	"testing"
	"time"

	"studio-hub/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueParse_RoundTrip(t *testing.T) {
	s := NewService("secret", time.Hour)
	u := models.User{Role: models.RoleHR}
	u.ID = 42

	raw, exp, err := s.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if exp.IsZero() {
		t.Error("expiry not set")
	}

	claims, err := s.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Errorf("UserID = %d, %v; want 42", id, err)
	}
	if claims.Role != models.RoleHR {
		t.Errorf("Role = %q, want hr", claims.Role)
	}
}

func TestParse_Rejects(t *testing.T) {
	s := NewService("secret", time.Hour)
	u := models.User{Role: models.RoleEmployee}
	u.ID = 7
	good, _, err := s.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expired := NewService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(u)
	if err != nil {
		t.Fatalf("Issue expired: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name string
		svc  *Service
		raw  string
	}{
		{name: "wrong secret", svc: NewService("other", time.Hour), raw: good},
		{name: "expired", svc: s, raw: old},
		{name: "alg none", svc: s, raw: none},
		{name: "no subject", svc: s, raw: noSubject},
		{name: "garbage", svc: s, raw: "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Parse(tt.raw); !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse err = %v, want ErrInvalid", err)
			}
		})
	}
}
