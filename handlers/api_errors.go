package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/services"
)

// Error codes carried in APIErrorDetail.Code
const (
	CodeInvalidRequest      = "invalid_request"
	CodeNotFound            = "not_found"
	CodeUnknownOperation    = "unknown_operation"
	CodeConstraintViolation = "constraint_violation"
	CodeStoreError          = "store_error"
)

var (
	errInvalidRequest   = errors.New("invalid request")
	errUnknownOperation = errors.New("unknown operation")
)

func invalidRequestf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, fmt.Sprintf(format, args...))
}

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// writeError maps a request or service error onto the error envelope.
// The underlying message is passed through as the detail.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, errInvalidRequest), errors.Is(err, services.ErrInvalidSort):
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.Is(err, errUnknownOperation):
		WriteAPIError(w, http.StatusNotFound, CodeUnknownOperation, err.Error())
	case errors.Is(err, services.ErrEventNotFound):
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case services.IsConstraintViolation(err):
		WriteAPIError(w, http.StatusConflict, CodeConstraintViolation, err.Error())
	default:
		log.Error("store operation failed", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeStoreError, err.Error())
	}
}
