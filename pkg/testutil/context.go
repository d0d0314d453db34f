package testutil

import (
	"net/http"
	"time"

	"sepacheck/pkg/requestcontext"
	"sepacheck/pkg/sepa/schema"
)

// WithRequestID sets the request ID the RequestID middleware would assign.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithRequestTime pins the request clock.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithSchemaVersion sets the version the version middleware would extract
// from the X-Sepa-Schema-Version header.
func WithSchemaVersion(req *http.Request, v schema.Version) *http.Request {
	return req.WithContext(requestcontext.WithSchemaVersion(req.Context(), v))
}
