package oauth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	dto "github.com/dropDatabas3/askjohn/internal/http/dto/oauth"
	httperrors "github.com/dropDatabas3/askjohn/internal/http/errors"
	mw "github.com/dropDatabas3/askjohn/internal/http/middlewares"
	"github.com/dropDatabas3/askjohn/internal/introspection"
	"github.com/dropDatabas3/askjohn/internal/metrics"
	"github.com/dropDatabas3/askjohn/internal/observability/logger"
)

// IntrospectController handles POST /oauth2/introspect (RFC 7662).
// The requester-auth middleware runs before it and leaves the caller's
// identity in the context; this layer only parses the form, calls the
// service and maps its outcomes onto status codes.
type IntrospectController struct {
	service introspection.Service
}

// NewIntrospectController creates the controller.
func NewIntrospectController(service introspection.Service) *IntrospectController {
	return &IntrospectController{service: service}
}

// Introspect handles the introspection request.
// Status mapping: 200 (active or inactive), 401 (no usable credential),
// 403 (policy denial), 500 (collaborator failure).
func (c *IntrospectController) Introspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("IntrospectController.Introspect"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid form data"))
		return
	}

	req := introspection.Request{
		Token:         strings.TrimSpace(r.PostForm.Get("token")),
		TokenTypeHint: strings.TrimSpace(r.PostForm.Get("token_type_hint")),
		Requester:     mw.GetRequester(ctx),
	}

	start := time.Now()
	result, err := c.service.Introspect(ctx, req)
	metrics.IntrospectionLatency.Observe(float64(time.Since(start).Milliseconds()))

	switch {
	case errors.Is(err, introspection.ErrUnauthenticated):
		metrics.IntrospectionRequests.WithLabelValues("unauthorized").Inc()
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	case errors.Is(err, introspection.ErrForbidden):
		metrics.IntrospectionRequests.WithLabelValues("forbidden").Inc()
		httperrors.WriteError(w, httperrors.ErrForbidden)
		return
	case err != nil:
		metrics.IntrospectionRequests.WithLabelValues("error").Inc()
		log.Error("introspection failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	outcome := "inactive"
	if result.Active {
		outcome = "active"
	}
	metrics.IntrospectionRequests.WithLabelValues(outcome).Inc()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildResponse(result))

	log.Debug("introspection completed", logger.Bool("active", result.Active))
}

// buildResponse traduce el resultado del service a la forma de wire.
func buildResponse(result *dto.IntrospectResult) dto.IntrospectResponse {
	return dto.IntrospectResponse{
		Active:    result.Active,
		TokenType: result.TokenType,
		ClientID:  result.ClientID,
		Scope:     result.Scope,
		Sub:       result.Sub,
		Username:  result.Username,
		Exp:       result.Exp,
		Iat:       result.Iat,
	}
}
