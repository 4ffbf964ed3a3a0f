package web

import "net/http"

// Error codes returned in the "code" field of an error response.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeInvalidRepository = "INVALID_REPOSITORY"
	CodeUnknownMetric     = "UNKNOWN_METRIC"
	CodeNotFound          = "NOT_FOUND"
	CodeTimeout           = "TIMEOUT"
	CodeUpstream          = "UPSTREAM_ERROR"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error: errorBody{
			Code:    code,
			Message: message,
		},
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code, msg := mapDomainError(err)
	writeError(w, status, code, msg)
}
