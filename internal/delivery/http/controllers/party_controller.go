package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"partyplanner/internal/delivery/http/helpers"
	"partyplanner/internal/domain"
)

// CreatePartyRequest is the request body for POST /parties. The caller becomes the creator.
type CreatePartyRequest struct {
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date" example:"2026-12-31T21:00:00Z"`
	Description string    `json:"description"`
	MinimumAge  *int      `json:"minimum_age"`
	MaximumAge  *int      `json:"maximum_age"`
}

// Validate implements Validator.
func (req CreatePartyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		errs = append(errs, "location is required")
	}
	if req.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	return errs
}

// UpdatePartyRequest is the request body for PATCH /parties/{partyID}. Every field is optional.
type UpdatePartyRequest struct {
	Name        *string    `json:"name"`
	Location    *string    `json:"location"`
	Date        *time.Time `json:"date" example:"2026-12-31T21:00:00Z"`
	Description *string    `json:"description"`
	MinimumAge  *int       `json:"minimum_age"`
	MaximumAge  *int       `json:"maximum_age"`
}

// Validate implements Validator.
func (req UpdatePartyRequest) Validate() []string {
	if req == (UpdatePartyRequest{}) {
		return []string{"at least one field is required"}
	}
	return nil
}

// PartySuccessResponse is the success response envelope for endpoints returning one party.
type PartySuccessResponse struct {
	Data  *domain.Party     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PartiesSuccessResponse is the success response envelope for endpoints returning a list of parties.
type PartiesSuccessResponse struct {
	Data  []*domain.Party   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MyPartiesSuccessResponse is the success response envelope for GET /parties (200).
type MyPartiesSuccessResponse struct {
	Data  *domain.MyParties `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PartyController handles party endpoints.
type PartyController struct {
	Logger  *slog.Logger
	Service domain.PartyService
}

// NewPartyController creates a PartyController with the given logger and service.
func NewPartyController(logger *slog.Logger, svc domain.PartyService) *PartyController {
	return &PartyController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a party
// @Description Create a party. The caller becomes its creator and holds organizer rights. If both age bounds are set the minimum must not exceed the maximum.
// @Tags parties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePartyRequest true "Party data"
// @Success 201 {object} controllers.PartySuccessResponse "data contains the created party"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parties [post]
func (c *PartyController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req CreatePartyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	party := domain.NewParty(req.Name, req.Location, req.Date, req.Description, req.MinimumAge, req.MaximumAge, actor, time.Time{}, time.Time{})
	if err := c.Service.Create(r.Context(), actor, party); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, party)
}

// ListMine godoc
// @Summary List my parties
// @Description Returns the parties the caller created and the parties the caller is invited to.
// @Tags parties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyPartiesSuccessResponse "data contains created_parties and invited_parties"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parties [get]
func (c *PartyController) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	mine, err := c.Service.ListMine(r.Context(), actor)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, mine)
}

// ListByCreator godoc
// @Summary List a user's parties
// @Description Returns the parties created by the given user. Callers other than that user only see the parties they are invited to.
// @Tags parties
// @Produce json
// @Security BearerAuth
// @Param username path string true "Creator username"
// @Success 200 {object} controllers.PartiesSuccessResponse "data contains the parties"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parties/user/{username} [get]
func (c *PartyController) ListByCreator(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	parties, err := c.Service.ListByCreator(r.Context(), actor, r.PathValue("username"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if parties == nil {
		parties = []*domain.Party{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, parties)
}

// Get godoc
// @Summary Get a party
// @Description Returns the party if the caller created it or is invited to it.
// @Tags parties
// @Produce json
// @Security BearerAuth
// @Param partyID path string true "Party ID (UUID)"
// @Success 200 {object} controllers.PartySuccessResponse "data contains the party"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parties/{partyID} [get]
func (c *PartyController) Get(w http.ResponseWriter, r *http.Request) {
	partyID, ok := helpers.PathID(w, r, "partyID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	party, err := c.Service.Get(r.Context(), actor, partyID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, party)
}

// Update godoc
// @Summary Update a party
// @Description Partially update a party. Requires organizer rights. The creator never changes and age bounds are re-validated.
// @Tags parties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param partyID path string true "Party ID (UUID)"
// @Param body body UpdatePartyRequest true "Fields to update"
// @Success 200 {object} controllers.PartySuccessResponse "data contains the updated party"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parties/{partyID} [patch]
func (c *PartyController) Update(w http.ResponseWriter, r *http.Request) {
	partyID, ok := helpers.PathID(w, r, "partyID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req UpdatePartyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	party, err := c.Service.Update(r.Context(), actor, partyID, domain.PartyPatch{
		Name:        req.Name,
		Location:    req.Location,
		Date:        req.Date,
		Description: req.Description,
		MinimumAge:  req.MinimumAge,
		MaximumAge:  req.MaximumAge,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, party)
}

// Delete godoc
// @Summary Delete a party
// @Description Delete a party with all its invitations and items. Requires organizer rights. Invitees are notified by email.
// @Tags parties
// @Produce json
// @Security BearerAuth
// @Param partyID path string true "Party ID (UUID)"
// @Success 200 {object} controllers.DeleteSuccessResponse "data.status is deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parties/{partyID} [delete]
func (c *PartyController) Delete(w http.ResponseWriter, r *http.Request) {
	partyID, ok := helpers.PathID(w, r, "partyID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), actor, partyID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, deleted)
}
