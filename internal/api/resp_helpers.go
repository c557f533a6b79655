package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/fsnd-labs/fsnd-api/internal/auth"
)

var errEmptyPayload = errors.New("request payload is empty")

func decodePayload[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	defer r.Body.Close()
	if err != nil {
		return v, fmt.Errorf("failure decoding request payload: %w", err)
	}
	return v, err
}

// decodeFields decodes a JSON object payload keeping the raw value of each
// key, so handlers can branch on which keys are present.
func decodeFields(r *http.Request) (map[string]json.RawMessage, error) {
	fields, err := decodePayload[map[string]json.RawMessage](r)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errEmptyPayload
	}
	return fields, nil
}

var errorMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusNotFound:            "resource not found",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusInternalServerError: "internal server error",
	http.StatusBadGateway:          "bad gateway",
	http.StatusServiceUnavailable:  "service unavailable",
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func makeStatusCodeMsg(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}

// respondWithError writes the error envelope. msg replaces the static
// message for code when non-empty; err is only logged.
func respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	errorMessage := makeStatusCodeMsg(code)
	if msg != "" {
		errorMessage += fmt.Sprintf("; %s", msg)
	}
	if err != nil {
		errorMessage += fmt.Sprintf(": %s", err.Error())
	}
	slog.Error(errorMessage, slog.Int("HTTP Status Code", code))

	if msg == "" {
		msg = errorMessages[code]
	}
	if msg == "" {
		msg = strings.ToLower(http.StatusText(code))
	}
	respondWithJSON(w, code, errorResponse{
		Success: false,
		Error:   code,
		Message: msg,
	})
}

func respondWithAuthError(w http.ResponseWriter, err error) {
	var authErr *auth.AuthError
	if !errors.As(err, &authErr) {
		respondWithError(w, http.StatusUnauthorized, "", err)
		return
	}
	slog.Warn("authorization failed",
		slog.String("code", authErr.Code),
		slog.String("description", authErr.Description))
	respondWithJSON(w, authErr.StatusCode, errorResponse{
		Success: false,
		Error:   authErr.StatusCode,
		Code:    authErr.Code,
		Message: authErr.Description,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("could not marshal JSON for response: " + err.Error())
		w.WriteHeader(500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err = w.Write(data)
	if err != nil {
		slog.Error("could not write to header from JSON payload: " + err.Error())
	}
}

func respondWithText(w http.ResponseWriter, code int, msg string) {
	if msg == "" {
		msg = makeStatusCodeMsg(code)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(msg)); err != nil {
		slog.Error(err.Error())
	}
}

func parseIDFromPath(pathParam string, r *http.Request) (int32, error) {
	idString := r.PathValue(pathParam)
	id, err := strconv.ParseInt(idString, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("value '%s' for path parameter '%s' could not be parsed as an integer: %w", idString, pathParam, err)
	}
	return int32(id), nil
}

// Parse the 1-based page number from the query; missing means page 1.
func parsePageFromQuery(r *http.Request) (int, error) {
	pageString := r.URL.Query().Get("page")
	if pageString == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(pageString)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid query parameter value '%s' for 'page'", pageString)
	}
	return page, nil
}

// flexInt accepts a JSON number or a numeric string, as sent by the trivia
// frontend for ids, categories and difficulties.
type flexInt int32

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		return errors.New("integer value is null")
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if n, err := strconv.ParseInt(raw, 10, 32); err == nil {
		*f = flexInt(n)
		return nil
	}
	fl, err := strconv.ParseFloat(raw, 64)
	if err != nil || fl != math.Trunc(fl) || fl > math.MaxInt32 || fl < math.MinInt32 {
		return fmt.Errorf("value %s is not an integer", data)
	}
	*f = flexInt(fl)
	return nil
}

// unmarshalField decodes fields[key] into T. A null value is an error.
func unmarshalField[T any](fields map[string]json.RawMessage, key string) (T, error) {
	var v T
	if raw := bytes.TrimSpace(fields[key]); len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return v, fmt.Errorf("field '%s' is null", key)
	}
	if err := json.Unmarshal(fields[key], &v); err != nil {
		return v, fmt.Errorf("field '%s': %w", key, err)
	}
	return v, nil
}
