package errors

import (
	"encoding/json"
	"net/http"
)

// errorResponse controla exactamente qué campos ve el cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe una respuesta HTTP a partir del error dado. Maneja
// *AppError y errores genéricos (estos últimos se vuelven 500).
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
