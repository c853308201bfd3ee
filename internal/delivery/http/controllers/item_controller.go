package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"partyplanner/internal/delivery/http/helpers"
	"partyplanner/internal/domain"
)

// CreateItemRequest is the request body for POST /items. Type defaults to "Other" and quantity to 1.
type CreateItemRequest struct {
	InvitationID string  `json:"invitation_id"`
	Type         string  `json:"type" enums:"Non-alcoholic drink,Alcoholic drink,Food,Game,Accessory,Other"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Quantity     int     `json:"quantity"`
}

// Validate implements Validator.
func (req CreateItemRequest) Validate() []string {
	var errs []string
	if !helpers.IsUUID(req.InvitationID) {
		errs = append(errs, "invitation_id must be a UUID")
	}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if req.Quantity < 0 {
		errs = append(errs, "quantity must be at least 1")
	}
	return errs
}

// UpdateItemRequest is the request body for PATCH /items/{itemID}. Every field is optional.
type UpdateItemRequest struct {
	Type        *string `json:"type" enums:"Non-alcoholic drink,Alcoholic drink,Food,Game,Accessory,Other"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"`
}

// Validate implements Validator.
func (req UpdateItemRequest) Validate() []string {
	if req == (UpdateItemRequest{}) {
		return []string{"at least one field is required"}
	}
	return nil
}

// ItemSuccessResponse is the success response envelope for endpoints returning one item.
type ItemSuccessResponse struct {
	Data  *domain.Item      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ItemsSuccessResponse is the success response envelope for endpoints returning a list of items.
type ItemsSuccessResponse struct {
	Data  []*domain.Item    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ItemController handles item endpoints.
type ItemController struct {
	Logger  *slog.Logger
	Service domain.ItemService
}

// NewItemController creates an ItemController with the given logger and service.
func NewItemController(logger *slog.Logger, svc domain.ItemService) *ItemController {
	return &ItemController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *ItemController) writeList(w http.ResponseWriter, r *http.Request, items []*domain.Item, err error) {
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// Create godoc
// @Summary Add an item
// @Description Add an item to bring under an invitation. Only the invitee of that invitation may add items.
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateItemRequest true "Item data"
// @Success 201 {object} controllers.ItemSuccessResponse "data contains the created item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /items [post]
func (c *ItemController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req CreateItemRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	item, err := c.Service.Create(r.Context(), actor, req.InvitationID, domain.ItemInput{
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, item)
}

// ListMine godoc
// @Summary List my items
// @Description Returns the items under every invitation the caller received.
// @Tags items
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ItemsSuccessResponse "data contains the items"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /items [get]
func (c *ItemController) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListMine(r.Context(), actor)
	c.writeList(w, r, items, err)
}

// ListForParty godoc
// @Summary List a party's items
// @Description Returns every item brought to the party. The caller must be the creator or invited.
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param partyID path string true "Party ID (UUID)"
// @Success 200 {object} controllers.ItemsSuccessResponse "data contains the items"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /items/party/{partyID} [get]
func (c *ItemController) ListForParty(w http.ResponseWriter, r *http.Request) {
	partyID, ok := helpers.PathID(w, r, "partyID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListForParty(r.Context(), actor, partyID)
	c.writeList(w, r, items, err)
}

// Get godoc
// @Summary Get an item
// @Description Returns the item if the caller can see its party.
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param itemID path string true "Item ID (UUID)"
// @Success 200 {object} controllers.ItemSuccessResponse "data contains the item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /items/{itemID} [get]
func (c *ItemController) Get(w http.ResponseWriter, r *http.Request) {
	itemID, ok := helpers.PathID(w, r, "itemID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	item, err := c.Service.Get(r.Context(), actor, itemID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, item)
}

// Update godoc
// @Summary Update an item
// @Description Partially update an item. Only the invitee of the item's invitation may edit it.
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemID path string true "Item ID (UUID)"
// @Param body body UpdateItemRequest true "Fields to update"
// @Success 200 {object} controllers.ItemSuccessResponse "data contains the updated item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /items/{itemID} [patch]
func (c *ItemController) Update(w http.ResponseWriter, r *http.Request) {
	itemID, ok := helpers.PathID(w, r, "itemID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	item, err := c.Service.Update(r.Context(), actor, itemID, domain.ItemPatch{
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete an item
// @Description Only the invitee of the item's invitation may delete it.
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param itemID path string true "Item ID (UUID)"
// @Success 200 {object} controllers.DeleteSuccessResponse "data.status is deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /items/{itemID} [delete]
func (c *ItemController) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, ok := helpers.PathID(w, r, "itemID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), actor, itemID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, deleted)
}
