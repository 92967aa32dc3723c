package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	dto "github.com/dropDatabas3/askjohn/internal/http/dto/oauth"
	mw "github.com/dropDatabas3/askjohn/internal/http/middlewares"
	"github.com/dropDatabas3/askjohn/internal/introspection"
)

// stubService devuelve respuestas enlatadas y registra el request.
type stubService struct {
	result *dto.IntrospectResult
	err    error
	got    introspection.Request
}

func (s *stubService) Introspect(_ context.Context, req introspection.Request) (*dto.IntrospectResult, error) {
	s.got = req
	return s.result, s.err
}

func doPost(t *testing.T, svc introspection.Service, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	c := NewIntrospectController(svc)

	req := httptest.NewRequest(http.MethodPost, "/oauth2/introspect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx := mw.WithRequester(req.Context(), introspection.DirectClient{ClientID: "app"})
	rec := httptest.NewRecorder()
	c.Introspect(rec, req.WithContext(ctx))
	return rec
}

func TestIntrospectController_Active(t *testing.T) {
	svc := &stubService{result: &dto.IntrospectResult{
		Active:    true,
		TokenType: "access_token",
		ClientID:  "app",
		Scope:     "openid api:read",
		Sub:       "sub-1",
		Username:  "ada",
		Exp:       1800000000,
		Iat:       1700000000,
	}}

	rec := doPost(t, svc, url.Values{"token": {"tok"}, "token_type_hint": {"access_token"}})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{
		"active": true,
		"token_type": "access_token",
		"client_id": "app",
		"scope": "openid api:read",
		"sub": "sub-1",
		"username": "ada",
		"exp": 1800000000,
		"iat": 1700000000
	}`, rec.Body.String())

	// el form llega intacto al service
	require.Equal(t, "tok", svc.got.Token)
	require.Equal(t, "access_token", svc.got.TokenTypeHint)
	require.NotNil(t, svc.got.Requester)
}

func TestIntrospectController_InactiveIsMinimal(t *testing.T) {
	svc := &stubService{result: &dto.IntrospectResult{Active: false}}

	rec := doPost(t, svc, url.Values{"token": {"nope"}})

	require.Equal(t, http.StatusOK, rec.Code)
	// exactamente {"active":false}, sin campos de más
	require.Equal(t, `{"active":false}`, strings.TrimSpace(rec.Body.String()))
}

func TestIntrospectController_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unauthenticated", introspection.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", introspection.ErrForbidden, http.StatusForbidden},
		{"collaborator failure", errors.New("pg down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doPost(t, &stubService{err: tc.err}, url.Values{"token": {"tok"}})
			require.Equal(t, tc.code, rec.Code)
			require.NotContains(t, rec.Body.String(), "active", "error responses are not introspection results")
		})
	}
}

func TestIntrospectController_MethodNotAllowed(t *testing.T) {
	c := NewIntrospectController(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/oauth2/introspect", nil)
	rec := httptest.NewRecorder()
	c.Introspect(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "POST", rec.Header().Get("Allow"))
}
