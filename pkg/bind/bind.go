// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/chiquebutik/butik/config"
	"github.com/chiquebutik/butik/pkg/validate"
)

// MaxBodyBytes is the request body limit (MAX_BODY_BYTES, default 1 MB).
func MaxBodyBytes() int64 {
	n := config.Int("MAX_BODY_BYTES", 1<<20)
	if n <= 0 {
		return 1 << 20
	}
	return int64(n)
}

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (fields, nil) when validation fails and (nil, err) when the body
// is malformed or too large.
func JSON(r *http.Request, dest interface{}) (fields map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, errors.New("request body is empty")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if fields = validate.Struct(dest); validate.HasErrors(fields) {
		return fields, nil
	}
	return nil, nil
}

// Raw reads the full body up to limit bytes. Used where the exact bytes
// matter, such as signed webhook payloads.
func Raw(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("bind: read body: %w", err)
	}
	return body, nil
}
