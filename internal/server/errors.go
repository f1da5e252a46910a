package server

import (
	"encoding/json"
	"net/http"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func errNotFound(path string) error {
	return terrors.New(terrors.ErrCodeNotFound, "no route for %s", path)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code terrors.Code) int {
	switch code {
	case terrors.ErrCodeInvalidInput, terrors.ErrCodeInvalidEmployee, terrors.ErrCodeInvalidFormat,
		terrors.ErrCodeInvalidStyle, terrors.ErrCodeInvalidConfig, terrors.ErrCodeInvalidFilter,
		terrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case terrors.ErrCodeNotFound, terrors.ErrCodeEmployeeNotFound, terrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case terrors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case terrors.ErrCodeDuplicateID:
		return http.StatusConflict
	case terrors.ErrCodeNoRoot, terrors.ErrCodeAmbiguousRoot, terrors.ErrCodeOrphanRecord, terrors.ErrCodeCyclicHierarchy:
		return http.StatusUnprocessableEntity
	case terrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case terrors.ErrCodeNetwork, terrors.ErrCodeTimeout:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// isHierarchyError reports whether err means the records do not form a
// chartable tree.
func isHierarchyError(err error) bool {
	return terrors.IsHierarchy(err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := terrors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = terrors.ErrCodeInternal
	}
	msg := terrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: msg, RequestID: RequestID(r.Context())})
}
