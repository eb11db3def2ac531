package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"gamenight/internal/domain"
	"gamenight/internal/infrastructure/i18n"
)

var statusByCode = map[string]int{
	"event_not_found":       http.StatusNotFound,
	"participant_not_found": http.StatusNotFound,
	"participant_exists":    http.StatusConflict,
	"not_organizer":         http.StatusForbidden,
	"invalid_transition":    http.StatusConflict,
	"side_effect_failed":    http.StatusInternalServerError,
	"event_full":            http.StatusConflict,
	"registration_closed":   http.StatusConflict,
	"check_in_closed":       http.StatusConflict,
	"not_attended":          http.StatusConflict,
	"invalid_placement":     http.StatusBadRequest,
	"empty_result":          http.StatusBadRequest,
	"invalid_status":        http.StatusBadRequest,
	"results_hidden":        http.StatusForbidden,
	"invalid_input":         http.StatusBadRequest,
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// locale is the raw Accept-Language header; go-i18n parses it, including
// quality weights.
func (s *Server) locale(r *http.Request) string {
	if l := r.Header.Get("Accept-Language"); l != "" {
		return l
	}
	return s.defaultLocale
}

// writeError maps a service error to its HTTP status and localized message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		code, status = "internal", http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: i18n.ErrorMessage(s.translator, s.locale(r), err),
	}})
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, code string) {
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: s.translator.T(s.locale(r), "error."+code, nil),
	}})
}

func (s *Server) writeValidation(w http.ResponseWriter, r *http.Request, err error) {
	detail := errorDetail{
		Code:    "bad_request",
		Message: s.translator.T(s.locale(r), "error.bad_request", nil),
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			detail.Fields = append(detail.Fields, fe.Field())
		}
	}
	writeJSON(w, http.StatusBadRequest, errorBody{Error: detail})
}
