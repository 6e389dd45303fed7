package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/lanort/pedidos/pkg/errors"
)

// QueryString returns the trimmed query value for key.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// ParsePathIndex reads a zero-based position from the named route parameter.
func ParsePathIndex(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter required").WithDetails(map[string]any{"field": key})
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter out of range").WithDetails(map[string]any{"field": key, "min": 0})
	}
	return value, nil
}

// PathString returns the trimmed route parameter or a validation error when blank.
func PathString(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "path parameter required").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}
