package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la aplicación.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa original, solo para logs
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail agrega detalle adicional. Devuelve una COPIA para no mutar
// las variables base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa). Devuelve una COPIA.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// FromError convierte un error genérico en AppError; si no lo es,
// devuelve un error interno conservando la causa.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// ─── Catálogo ───

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "No autorizado. Se requiere autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Las credenciales proporcionadas son inválidas.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenMissing = &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "No se proporcionó token de autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "El token de acceso es inválido o está malformado.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "No tiene permisos para realizar esta acción.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrTooManyRequests = &AppError{
		Code:       "TOO_MANY_REQUESTS",
		Message:    "Demasiadas solicitudes. Intente nuevamente más tarde.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error interno en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
