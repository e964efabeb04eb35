// Package handler contains the HTTP handlers of the shortener: link
// creation, redirects, per-link stats and the operational endpoints. Request
// bodies are decoded strictly and every failure is answered with a JSON
// ErrorResponse carrying a stable code.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/models"
)

// CodeInvalidRequest is reported for bodies that cannot be decoded.
const CodeInvalidRequest = "InvalidRequest"

// malformedRequest represents an error with a malformed HTTP request.
type malformedRequest struct {
	status int    // HTTP status code for the error
	msg    string // Error message
}

// Error returns the error message for a malformed request.
func (mr *malformedRequest) Error() string {
	return mr.msg
}

// decodeJSONBody decodes a JSON request body into dst. Unknown fields are
// ignored, everything else that is not a single JSON object is rejected.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
		if mediaType != "application/json" {
			msg := "Content-Type header is not application/json"
			return &malformedRequest{status: http.StatusUnsupportedMediaType, msg: msg}
		}
	}

	// Limit the size of the request body to 1MB
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.ErrUnexpectedEOF):
			msg := "Request body contains badly-formed JSON"
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.EOF):
			msg := "Request body must not be empty"
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.As(err, &maxBytesError):
			msg := "Request body must not be larger than 1MB"
			return &malformedRequest{status: http.StatusRequestEntityTooLarge, msg: msg}

		default:
			return err
		}
	}

	// Ensure the body only contains a single JSON object
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		msg := "Request body must only contain a single JSON object"
		return &malformedRequest{status: http.StatusBadRequest, msg: msg}
	}

	return nil
}

// statusFor maps a public error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case service.CodeInvalidURL, service.CodeInvalidAlias, CodeInvalidRequest:
		return http.StatusBadRequest
	case service.CodeAliasTaken:
		return http.StatusConflict
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeGenerationExhausted, service.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(res http.ResponseWriter, logger *zap.Logger, status int, v any) {
	response, err := json.Marshal(v)
	if err != nil {
		logger.Error("cannot encode response", zap.Error(err))
		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)

	if _, err := res.Write(response); err != nil {
		logger.Debug("cannot write response", zap.Error(err))
	}
}

func writeError(res http.ResponseWriter, logger *zap.Logger, status int, code, detail string) {
	writeJSON(res, logger, status, models.ErrorResponse{Code: code, Detail: detail})
}

// writeServiceError answers with the public form of err. The full error
// only goes to the log.
func writeServiceError(res http.ResponseWriter, logger *zap.Logger, err error) {
	code := service.ErrorCode(err)
	status := statusFor(code)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("code", code), zap.Error(err))
	} else {
		logger.Info("request rejected", zap.String("code", code), zap.Error(err))
	}

	writeError(res, logger, status, code, service.ErrorDetail(err))
}

func writeDecodeError(res http.ResponseWriter, logger *zap.Logger, err error) {
	var mr *malformedRequest
	if errors.As(err, &mr) {
		writeError(res, logger, mr.status, CodeInvalidRequest, mr.msg)
		return
	}

	logger.Error("cannot read request body", zap.Error(err))
	writeError(res, logger, http.StatusBadRequest, CodeInvalidRequest, "Request body could not be read")
}
