package testutil

import (
	"net/http"

	id "prooflayer/pkg/domain"
	"prooflayer/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context, as RequireAuth would for
// an authenticated request.
func WithUserID(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithBearer sets the Authorization header.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
