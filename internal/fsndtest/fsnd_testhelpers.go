package fsndtest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
)

// GetJSONField decodes the recorded response body as an object and returns
// one field. JSON numbers come back as int64 when integral, else float64.
func GetJSONField(w *httptest.ResponseRecorder, field string) (any, error) {
	var body map[string]any
	decoder := json.NewDecoder(w.Body)
	decoder.UseNumber()
	err := decoder.Decode(&body)
	if err != nil {
		return nil, err
	}
	val, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}

	if num, ok := val.(json.Number); ok {
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		if f, err := num.Float64(); err == nil {
			return f, nil
		}
	}

	return val, nil
}

// DecodeBody decodes the whole recorded response body into T.
func DecodeBody[T any](w *httptest.ResponseRecorder) (T, error) {
	var v T
	err := json.Unmarshal(w.Body.Bytes(), &v)
	return v, err
}
