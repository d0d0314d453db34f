// Package version provides middleware that reads the pain schema version a
// client validates against.
package version

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"sepacheck/pkg/requestcontext"
	"sepacheck/pkg/sepa/schema"
)

// Header carries the default schema version for every field of a request.
// A version in the request body still wins.
const Header = "X-Sepa-Schema-Version"

// ExtractSchemaVersion creates middleware that parses Header and stores the
// version in the context. Requests without the header pass through
// unchanged; an unknown version is rejected with 400.
//
// Usage:
//
//	r.Route("/v1", func(v1 chi.Router) {
//	    v1.Use(version.ExtractSchemaVersion(logger))
//	    // ... routes
//	})
func ExtractSchemaVersion(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(Header))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			v, err := schema.ParseVersion(raw)
			if err != nil {
				if logger != nil {
					logger.WarnContext(ctx, "unknown schema version header",
						"request_id", requestcontext.RequestID(ctx),
						"version", raw,
					)
				}
				writeVersionError(w, http.StatusBadRequest, "invalid_schema_version", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithSchemaVersion(ctx, v)))
		})
	}
}

// versionErrorResponse represents the JSON error response for version-related errors.
type versionErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func writeVersionError(w http.ResponseWriter, statusCode int, errCode, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(versionErrorResponse{
		Error:            errCode,
		ErrorDescription: description,
	})
}
