package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

type stubSessions struct {
	sessions map[string]*domain.Session
}

func (s *stubSessions) Create(context.Context, string, string) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSessions) Verify(_ context.Context, token string) (*domain.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

func (s *stubSessions) Revoke(context.Context, string) error { return nil }

type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	return s.users[id], nil
}

func (s *stubUsers) FindByEmail(context.Context, string) (*domain.User, error) { return nil, nil }
func (s *stubUsers) FindByPhone(context.Context, string) (*domain.User, error) { return nil, nil }
func (s *stubUsers) Update(context.Context, string, domain.UserPatch) (*domain.User, error) {
	return nil, nil
}

func newSessionStub() *stubSessions {
	return &stubSessions{sessions: map[string]*domain.Session{
		"good-token": {Handle: "h1", UserID: "u1", Role: domain.RoleClient, Token: "good-token"},
	}}
}

func TestRequireSession_Cookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "good-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	var got *domain.Session
	handler := RequireSession(newSessionStub(), "sid")(func(c echo.Context) error {
		got = SessionFrom(c)
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || got.Handle != "h1" {
		t.Fatalf("expected session on context, got %+v", got)
	}
}

func TestRequireSession_BearerHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := RequireSession(newSessionStub(), "sid")(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequireSession_StaleCookieFallsBackToHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "revoked-token"})
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	var got *domain.Session
	handler := RequireSession(newSessionStub(), "sid")(func(c echo.Context) error {
		got = SessionFrom(c)
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || got.Handle != "h1" {
		t.Fatalf("expected the bearer session, got %+v", got)
	}
}

func TestRequireSession_Rejects(t *testing.T) {
	e := echo.New()

	for name, setup := range map[string]func(*http.Request){
		"missing":   func(*http.Request) {},
		"bad token": func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer nope") },
		"bad cookie": func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "sid", Value: "nope"})
		},
		"wrong scheme": func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Basic good-token") },
		"bad cookie and header": func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "sid", Value: "nope"})
			r.Header.Set(echo.HeaderAuthorization, "Bearer also-nope")
		},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		setup(req)
		c := e.NewContext(req, httptest.NewRecorder())

		handler := RequireSession(newSessionStub(), "sid")(func(c echo.Context) error {
			t.Fatalf("%s: should not reach next handler", name)
			return nil
		})
		if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestAttachUser(t *testing.T) {
	e := echo.New()
	users := &stubUsers{users: map[string]*domain.User{"u1": {ID: "u1", Role: domain.RoleArtisan}}}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	WithSession(c, &domain.Session{Handle: "h1", UserID: "u1"})

	var got *domain.User
	handler := AttachUser(users)(func(c echo.Context) error {
		got = UserFrom(c)
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || got.ID != "u1" {
		t.Fatalf("expected user on context, got %+v", got)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	WithSession(c, &domain.Session{Handle: "h2", UserID: "gone"})
	err := AttachUser(users)(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, domain.ErrSessionUserMissing) {
		t.Fatalf("expected ErrSessionUserMissing, got %v", err)
	}
	if domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("missing session user must be unauthorized, got %v", domain.KindOf(err))
	}
}
