package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/baharkarakas/wallet-api/internal/apperr"
	"go.uber.org/zap"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteCode renders an error of the given kind; an empty msg uses the kind's
// default message.
func WriteCode(w http.ResponseWriter, code apperr.ErrorCode, msg string, details interface{}) {
	if msg == "" {
		msg = code.Message
	}
	WriteError(w, code.Status, code.Code, msg, details)
}

// WriteAppError renders any error. Errors without an apperr code become 500
// and are logged with their cause.
func WriteAppError(w http.ResponseWriter, log *zap.Logger, err error) {
	ae := apperr.From(err)
	if ae.Code.Status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed", zap.String("code", ae.Code.Code), zap.Error(err))
	}
	WriteCode(w, ae.Code, ae.Message, nil)
}
