package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

type Middleware func(Handler) Handler

func WrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}

func Respond(ctx context.Context, w http.ResponseWriter, data interface{}, statusCode int) error {
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cannot marshal response data: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("cannot write response data to response writer: %w", err)
	}

	return nil
}

func Decode(w http.ResponseWriter, r *http.Request, val interface{}) error {
	maxBytes := 1048576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(val); err != nil {
		return err
	}

	return nil
}

// maxUploadBytes bounds multipart bodies carrying slip/submission files.
const maxUploadBytes = 32 << 20

// DecodeMultipart parses a multipart form whose "data" field holds a JSON
// document and whose fileField holds the uploaded binary. The file may be
// absent; callers that require it must check for a nil header.
func DecodeMultipart(r *http.Request, val interface{}, fileField string) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("cannot parse multipart form: %w", err)
	}

	raw := r.FormValue("data")
	if raw == "" {
		return nil, nil, errors.New("multipart form is missing the data field")
	}

	if err := json.Unmarshal([]byte(raw), val); err != nil {
		return nil, nil, fmt.Errorf("cannot decode the data field: %w", err)
	}

	f, fh, err := r.FormFile(fileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("cannot read the %s field: %w", fileField, err)
	}

	return f, fh, nil
}

func Param(r *http.Request, key string) string {
	m := mux.Vars(r)
	return m[key]
}

// Query returns a single query-string value, empty when absent.
func Query(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}
