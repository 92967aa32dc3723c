package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	httperrors "github.com/dropDatabas3/askjohn/internal/http/errors"
	"github.com/dropDatabas3/askjohn/internal/introspection"
	jwtx "github.com/dropDatabas3/askjohn/internal/jwt"
	"github.com/dropDatabas3/askjohn/internal/observability/logger"
	"github.com/dropDatabas3/askjohn/internal/security/secret"
)

// RequesterAuthDeps contiene lo necesario para autenticar al caller del
// endpoint de introspección.
type RequesterAuthDeps struct {
	// Keys verifica tokens bearer delegados (EdDSA).
	Keys *jwtx.Keyset

	// Issuer esperado en tokens delegados; "" desactiva el chequeo.
	Issuer string

	// Clients resuelve perfiles para verificar credenciales directas.
	Clients repository.ClientRepository
}

// WithRequesterAuth establece la identidad del caller y la inyecta en el
// contexto como introspection.RequesterIdentity:
//
//   - Authorization: Bearer <jwt>  → DelegatedClient (client_id + scopes
//     del grant delegado). La política de protection scope NO se evalúa
//     acá: eso es autorización y vive en el service.
//   - Basic auth o client_id/client_secret en el form (RFC 6749 §2.3.1)
//     → DirectClient, verificando el secret argon2id del perfil.
//
// Sin credenciales verificables responde 401. El 403 queda reservado
// para el service (autenticado pero denegado).
func WithRequesterAuth(deps RequesterAuthDeps) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))

			if strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				raw := strings.TrimSpace(ah[len("Bearer "):])
				id, err := delegatedIdentity(raw, deps)
				if err != nil {
					w.Header().Set("WWW-Authenticate", `Bearer realm="introspection", error="invalid_token"`)
					httperrors.WriteError(w, httperrors.ErrTokenInvalid.WithCause(err))
					return
				}
				next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), id)))
				return
			}

			clientID, clientSecret, ok := r.BasicAuth()
			if !ok {
				// RFC 6749 §2.3.1: credenciales en el body del form
				if err := r.ParseForm(); err == nil {
					clientID = r.PostForm.Get("client_id")
					clientSecret = r.PostForm.Get("client_secret")
				}
			}
			if clientID == "" || clientSecret == "" {
				w.Header().Set("WWW-Authenticate", `Basic realm="introspection"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing.WithDetail("client authentication required"))
				return
			}

			client, err := deps.Clients.GetByClientID(r.Context(), clientID)
			if err != nil && !repository.IsNotFound(err) {
				logger.From(r.Context()).Error("client lookup failed", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrInternalServerError)
				return
			}
			// mismo 401 para client inexistente y secret incorrecto
			if err != nil || client.Type != repository.ClientTypeConfidential ||
				client.SecretPHC == "" || !secret.Verify(clientSecret, client.SecretPHC) {
				httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
				return
			}

			id := introspection.DirectClient{ClientID: clientID}
			next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), id)))
		})
	}
}

// delegatedIdentity valida el JWT delegado y extrae client y scopes.
func delegatedIdentity(raw string, deps RequesterAuthDeps) (introspection.RequesterIdentity, error) {
	claims, err := jwtx.ParseEdDSA(raw, deps.Keys, deps.Issuer)
	if err != nil {
		return nil, err
	}

	// el client al que se le emitió el token delegado, no el del token
	// bajo inspección
	clientID := jwtx.ClaimString(claims, "client_id")
	if clientID == "" {
		clientID = jwtx.ClaimString(claims, "aud")
	}
	if clientID == "" {
		return nil, jwtx.ErrInvalidToken
	}

	scopeRaw := jwtx.ClaimString(claims, "scope")
	if scopeRaw == "" {
		scopeRaw = jwtx.ClaimString(claims, "scp")
	}

	return introspection.DelegatedClient{
		ClientID:      clientID,
		GrantedScopes: strings.Fields(scopeRaw),
	}, nil
}
