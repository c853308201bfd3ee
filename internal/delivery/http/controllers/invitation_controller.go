package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"partyplanner/internal/delivery/http/helpers"
	"partyplanner/internal/domain"
)

// InviteRequest is the request body for POST /invitations.
type InviteRequest struct {
	PartyID  string `json:"party_id"`
	Username string `json:"username"`
}

// Validate implements Validator.
func (req InviteRequest) Validate() []string {
	var errs []string
	if !helpers.IsUUID(req.PartyID) {
		errs = append(errs, "party_id must be a UUID")
	}
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, "username is required")
	}
	return errs
}

// UpdateInvitationRequest is the request body for PATCH /invitations/{invitationID}.
// accepted may only be set by the invitee; role requires organizer rights.
type UpdateInvitationRequest struct {
	Accepted *bool   `json:"accepted"`
	Role     *string `json:"role" enums:"participant,invitor,organizer"`
}

// Validate implements Validator.
func (req UpdateInvitationRequest) Validate() []string {
	var errs []string
	if req.Accepted == nil && req.Role == nil {
		errs = append(errs, "accepted or role is required")
	}
	if req.Role != nil {
		if _, err := domain.ParseRole(*req.Role); err != nil {
			errs = append(errs, "role must be one of participant, invitor, organizer")
		}
	}
	return errs
}

func (req UpdateInvitationRequest) update() domain.InvitationUpdate {
	upd := domain.InvitationUpdate{Accepted: req.Accepted}
	if req.Role != nil {
		role, _ := domain.ParseRole(*req.Role)
		upd.Role = &role
	}
	return upd
}

// InvitationSuccessResponse is the success response envelope for endpoints returning one invitation.
type InvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// InvitationsSuccessResponse is the success response envelope for GET /invitations/party/{partyID} (200).
type InvitationsSuccessResponse struct {
	Data  []*domain.Invitation `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// MyInvitationsSuccessResponse is the success response envelope for GET /invitations (200).
type MyInvitationsSuccessResponse struct {
	Data  *domain.MyInvitations `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// InvitationController handles invitation endpoints.
type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

// NewInvitationController creates an InvitationController with the given logger and service.
func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// Invite godoc
// @Summary Invite a user to a party
// @Description Invite a user by username. Requires invitor rights on the party. The invitation starts pending with the participant role and the invitee is notified by email.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InviteRequest true "Party and invitee"
// @Success 201 {object} controllers.InvitationSuccessResponse "data contains the invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations [post]
func (c *InvitationController) Invite(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.Invite(r.Context(), actor, req.PartyID, strings.TrimSpace(req.Username))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// ListMine godoc
// @Summary List my invitations
// @Description Returns the invitations the caller received and the invitations the caller issued.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyInvitationsSuccessResponse "data contains received_invitations and sent_invitations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations [get]
func (c *InvitationController) ListMine(w http.ResponseWriter, r *http.Request) {
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

// ListForParty godoc
// @Summary List a party's invitations
// @Description Returns every invitation of the party. The caller must be the creator or invited.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param partyID path string true "Party ID (UUID)"
// @Success 200 {object} controllers.InvitationsSuccessResponse "data contains the invitations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/party/{partyID} [get]
func (c *InvitationController) ListForParty(w http.ResponseWriter, r *http.Request) {
	partyID, ok := helpers.PathID(w, r, "partyID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	list, err := c.Service.ListForParty(r.Context(), actor, partyID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.Invitation{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// Update godoc
// @Summary Update an invitation
// @Description Accept an invitation (invitee only) or change its role (organizer rights, never on one's own invitation). An accepted invitation cannot go back to pending.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID (UUID)"
// @Param body body UpdateInvitationRequest true "accepted and/or role"
// @Success 200 {object} controllers.InvitationSuccessResponse "data contains the updated invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID} [patch]
func (c *InvitationController) Update(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := helpers.PathID(w, r, "invitationID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req UpdateInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.Update(r.Context(), actor, invitationID, req.update())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// Delete godoc
// @Summary Delete an invitation
// @Description Decline or revoke an invitation. Allowed for the invitee and for organizers of the party. The invitation's items are removed with it.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID (UUID)"
// @Success 200 {object} controllers.DeleteSuccessResponse "data.status is deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID} [delete]
func (c *InvitationController) Delete(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := helpers.PathID(w, r, "invitationID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), actor, invitationID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, deleted)
}
