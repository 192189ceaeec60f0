// Package handlers contains the HTTP handler implementations for the CropCura
// API.
//
// Each handler is responsible for:
//   - Decoding and validating HTTP requests
//   - Delegating to the caller's session workspace
//   - Encoding responses and managing HTTP-specific concerns (headers, cookies)
package handlers

import (
	"net/http"
	"strconv"

	"cropcura/internal/core"
	"cropcura/internal/types"
	"cropcura/internal/workspace"
)

// Workspaces resolves the per-session workspace. Implemented by
// *workspace.Manager.
type Workspaces interface {
	Open(sessionID string) *workspace.Workspace
	Close(sessionID string)
}

// sessionWorkspace returns the workspace of the authenticated caller, writing
// a 401 when AuthMiddleware did not attach an Actor.
func sessionWorkspace(w http.ResponseWriter, r *http.Request, ws Workspaces) (*workspace.Workspace, bool) {
	actor, ok := types.GetActor(r.Context())
	if !ok || actor.SessionID == "" {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "Sign in to continue", nil))
		return nil, false
	}
	return ws.Open(actor.SessionID), true
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidParameter,
			"invalid value for "+name,
			err,
			map[string]any{"parameter": name, "value": raw},
		)
	}
	return v, nil
}

// messageResponse is the body of endpoints that only acknowledge.
type messageResponse struct {
	Message string `json:"message"`
}
