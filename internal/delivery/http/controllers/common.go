package controllers

import (
	"net/http"
	"time"

	"partyplanner/internal/delivery/http/helpers"
	"partyplanner/internal/delivery/http/middleware"
)

// dateLayout is the wire format of calendar dates such as a birthdate.
const dateLayout = time.DateOnly

// DeleteResponse is the body returned by every DELETE endpoint.
type DeleteResponse struct {
	Status string `json:"status"`
}

// DeleteSuccessResponse is the success response envelope for DELETE endpoints (200).
type DeleteSuccessResponse struct {
	Data  DeleteResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

var deleted = DeleteResponse{Status: "deleted"}

// actorID returns the authenticated user ID or writes a 401.
func actorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}
