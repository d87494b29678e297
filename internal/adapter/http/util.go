package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"storefront/internal/app"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// formValues reads a flat set of fields from a JSON object, a urlencoded
// form or a multipart form, depending on the request content type.
func formValues(r *http.Request, fields ...string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		raw := map[string]any{}
		if err := parseJSON(r, &raw); err != nil {
			return nil, err
		}
		for _, f := range fields {
			switch v := raw[f].(type) {
			case nil:
			case string:
				out[f] = v
			case float64:
				out[f] = strconv.FormatFloat(v, 'f', -1, 64)
			default:
				return nil, fmt.Errorf("invalid json: field %s", f)
			}
		}
		return out, nil
	}

	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	for _, f := range fields {
		out[f] = r.Form.Get(f)
	}
	return out, nil
}

// actionMessages are the user-facing messages of one action.
type actionMessages struct {
	notFound string
	failed   string
}

// writeActionError maps an application error onto the action result shape.
func (s *Server) writeActionError(w http.ResponseWriter, r *http.Request, err error, msgs actionMessages) {
	if ve, ok := app.IsValidation(err); ok {
		writeError(w, http.StatusBadRequest, ve.Message)
		return
	}
	if errors.Is(err, app.ErrNotFound) && msgs.notFound != "" {
		writeError(w, http.StatusNotFound, msgs.notFound)
		return
	}
	s.logger.ErrorContext(r.Context(), "action failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, msgs.failed)
}
