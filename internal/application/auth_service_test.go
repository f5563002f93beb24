package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-blog-api/pkg/apperror"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

const (
	adminID = "0b6c1c8e-4f1e-4a7e-9b8e-2f3f4a5b6c7d"
	userID  = "9a1b2c3d-0000-4000-8000-000000000001"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthFixture(degrade bool) (*AuthService, *memory.UserDirectory, *helpers.JWTManager) {
	jwtm := helpers.NewJWTManager("test-secret", time.Hour)
	dir := memory.NewUserDirectory(
		entity.User{ID: adminID, Email: "admin@example.com", Name: "Admin", Role: entity.RoleAdmin, IsActive: true},
		entity.User{ID: userID, Email: "user@example.com", Name: "User", Role: entity.RoleUser, IsActive: true},
	)
	return NewAuthService(jwtm, dir, quietLogger(), time.Second, degrade), dir, jwtm
}

func bearer(t *testing.T, jwtm *helpers.JWTManager, id, email string) string {
	t.Helper()
	tok, _, err := jwtm.GenerateAccessToken(id, email)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return "Bearer " + tok
}

func expiredToken(t *testing.T, secret []byte, id string) string {
	t.Helper()
	past := time.Now().Add(-2 * time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &helpers.Claims{
		UserID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	})
	s, err := tok.SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"Bearer a b", "", false},
	}
	for _, c := range cases {
		got, ok := BearerToken(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("BearerToken(%q) = %q,%v want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestAuthenticateResolvesIdentity(t *testing.T) {
	svc, _, jwtm := newAuthFixture(true)
	id, state, err := svc.Authenticate(context.Background(), bearer(t, jwtm, adminID, "admin@example.com"))
	if err != nil || state != AuthResolved {
		t.Fatalf("state=%s err=%v", state, err)
	}
	if id.ID != adminID || id.Role != entity.RoleAdmin || id.Name != "Admin" || id.Degraded {
		t.Fatalf("identity = %+v", id)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	svc, dir, jwtm := newAuthFixture(true)
	ctx := context.Background()

	cases := []struct {
		name   string
		header string
		state  AuthState
		kind   apperror.Kind
	}{
		{"missing header", "", AuthNoToken, apperror.KindUnauthenticated},
		{"wrong scheme", "Token abc", AuthNoToken, apperror.KindUnauthenticated},
		{"garbage", "Bearer not.a.jwt", AuthInvalidToken, apperror.KindInvalidToken},
		{"wrong secret", bearer(t, helpers.NewJWTManager("other", time.Hour), adminID, "a"), AuthInvalidToken, apperror.KindInvalidToken},
		{"expired", "Bearer " + expiredToken(t, jwtm.Secret, adminID), AuthTokenExpired, apperror.KindTokenExpired},
		{"unknown user", bearer(t, jwtm, "11111111-2222-4333-8444-555555555555", "x"), AuthUnknownUser, apperror.KindUnauthenticated},
	}
	for _, c := range cases {
		id, state, err := svc.Authenticate(ctx, c.header)
		if id != nil || state != c.state || apperror.KindOf(err) != c.kind {
			t.Errorf("%s: id=%v state=%s err=%v", c.name, id, state, err)
		}
	}

	dir.Put(entity.User{ID: userID, Email: "user@example.com", IsActive: false})
	if _, state, err := svc.Authenticate(ctx, bearer(t, jwtm, userID, "user@example.com")); state != AuthUnknownUser || apperror.KindOf(err) != apperror.KindUnauthenticated {
		t.Fatalf("inactive: state=%s err=%v", state, err)
	}
}

func TestAuthenticateLookupOutage(t *testing.T) {
	ctx := context.Background()
	outage := errors.New("connection refused")

	svc, dir, jwtm := newAuthFixture(true)
	dir.Fail(outage)
	id, state, err := svc.Authenticate(ctx, bearer(t, jwtm, adminID, "admin@example.com"))
	if err != nil || state != AuthDegradedResolved {
		t.Fatalf("degrade on: state=%s err=%v", state, err)
	}
	if !id.Degraded || id.ID != adminID || id.Email != "admin@example.com" || id.Role != "" {
		t.Fatalf("degraded identity = %+v", id)
	}
	if !errors.Is(RequireAdmin(id), ErrAdminRequired) {
		t.Fatalf("degraded identity must not pass the admin gate")
	}
	if got := svc.AuthenticateOptional(ctx, bearer(t, jwtm, adminID, "admin@example.com")); got != nil {
		t.Fatalf("optional auth should treat a degraded identity as anonymous, got %+v", got)
	}

	strict, dir2, jwtm2 := newAuthFixture(false)
	dir2.Fail(outage)
	id, state, err = strict.Authenticate(ctx, bearer(t, jwtm2, adminID, "admin@example.com"))
	if id != nil || state != AuthLookupFailed || apperror.KindOf(err) != apperror.KindInternal {
		t.Fatalf("degrade off: id=%v state=%s err=%v", id, state, err)
	}
	if !errors.Is(err, outage) {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestAuthenticateOptional(t *testing.T) {
	svc, _, jwtm := newAuthFixture(true)
	ctx := context.Background()

	if svc.AuthenticateOptional(ctx, "") != nil {
		t.Fatalf("no header should be anonymous")
	}
	if svc.AuthenticateOptional(ctx, "Bearer junk") != nil {
		t.Fatalf("bad token should be anonymous")
	}
	if svc.AuthenticateOptional(ctx, "Bearer "+expiredToken(t, jwtm.Secret, adminID)) != nil {
		t.Fatalf("expired token should be anonymous")
	}
	id := svc.AuthenticateOptional(ctx, bearer(t, jwtm, userID, "user@example.com"))
	if id == nil || id.ID != userID {
		t.Fatalf("valid token: %+v", id)
	}
}

func TestRequireAdmin(t *testing.T) {
	if !errors.Is(RequireAdmin(nil), ErrAuthRequired) {
		t.Fatalf("nil identity")
	}
	if err := RequireAdmin(&entity.Identity{ID: userID, Role: entity.RoleUser}); apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("non-admin: %v", err)
	}
	if err := RequireAdmin(&entity.Identity{ID: adminID, Role: entity.RoleAdmin}); err != nil {
		t.Fatalf("admin: %v", err)
	}
}
