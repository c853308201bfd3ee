package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"partyplanner/internal/delivery/http/helpers"
	"partyplanner/internal/domain"
)

// RegisterRequest is the request body for POST /users
type RegisterRequest struct {
	Firstname          string `json:"firstname"`
	Lastname           string `json:"lastname"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	Birthdate          string `json:"birthdate" example:"1995-05-05"`
	RelationshipStatus string `json:"relationship_status"` // optional, defaults to "not your business"
}

// Validate implements Validator.
func (req RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Firstname) == "" {
		errs = append(errs, "firstname is required")
	}
	if strings.TrimSpace(req.Lastname) == "" {
		errs = append(errs, "lastname is required")
	}
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, "email is required")
	}
	if req.Password == "" {
		errs = append(errs, "password is required")
	}
	if _, ok := parseDate(req.Birthdate); !ok {
		errs = append(errs, "birthdate must be a date in YYYY-MM-DD format")
	}
	return errs
}

// UpdateUserRequest is the request body for PATCH /users/{username}. Every field is optional.
type UpdateUserRequest struct {
	Firstname          *string `json:"firstname"`
	Lastname           *string `json:"lastname"`
	Email              *string `json:"email"`
	Birthdate          *string `json:"birthdate" example:"1995-05-05"`
	RelationshipStatus *string `json:"relationship_status"`
}

// Validate implements Validator.
func (req UpdateUserRequest) Validate() []string {
	var errs []string
	if req.Firstname == nil && req.Lastname == nil && req.Email == nil && req.Birthdate == nil && req.RelationshipStatus == nil {
		errs = append(errs, "at least one field is required")
	}
	if req.Birthdate != nil {
		if _, ok := parseDate(*req.Birthdate); !ok {
			errs = append(errs, "birthdate must be a date in YYYY-MM-DD format")
		}
	}
	return errs
}

func (req UpdateUserRequest) patch() domain.UserPatch {
	p := domain.UserPatch{
		Firstname:          req.Firstname,
		Lastname:           req.Lastname,
		Email:              req.Email,
		RelationshipStatus: req.RelationshipStatus,
	}
	if req.Birthdate != nil {
		d, _ := parseDate(*req.Birthdate)
		p.Birthdate = &d
	}
	return p
}

// ListUsernamesResponse is the data of GET /users.
type ListUsernamesResponse struct {
	Usernames  []string               `json:"usernames"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// UserSuccessResponse is the success response envelope for endpoints returning the full user.
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ProfileSuccessResponse is the success response envelope for GET /users/{username} when the profile is someone else's.
type ProfileSuccessResponse struct {
	Data  *domain.PublicProfile `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListUsernamesSuccessResponse is the success response envelope for GET /users (200).
type ListUsernamesSuccessResponse struct {
	Data  ListUsernamesResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// UserController handles account and profile endpoints.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account. Username and email must be unique. Password is stored salted and hashed.
// @Tags users
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account data"
// @Success 201 {object} controllers.UserSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [post]
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	birthdate, _ := parseDate(req.Birthdate)
	user, err := c.Service.Register(r.Context(), domain.RegisterInput{
		Firstname:          req.Firstname,
		Lastname:           req.Lastname,
		Username:           req.Username,
		Email:              req.Email,
		Password:           req.Password,
		Birthdate:          birthdate,
		RelationshipStatus: req.RelationshipStatus,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// ListUsernames godoc
// @Summary List usernames
// @Description Paginated list of all usernames, sorted alphabetically.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 50, max 200)"
// @Success 200 {object} controllers.ListUsernamesSuccessResponse "data contains usernames and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (page or page_size not a positive integer)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) ListUsernames(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorID(w, r); !ok {
		return
	}
	params, ok := helpers.ParsePagination(w, r, helpers.UsernamePageLimits)
	if !ok {
		return
	}
	names, total, err := c.Service.ListUsernames(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListUsernamesResponse{Usernames: names, Pagination: meta})
}

// GetProfile godoc
// @Summary Get a user profile
// @Description Returns the full profile when it is the caller's own, otherwise the public view (id, username, birthdate, relationship status).
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the public profile, or the full user for the caller's own profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{username} [get]
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	full, public, err := c.Service.GetProfile(r.Context(), actor, r.PathValue("username"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if full != nil {
		helpers.WriteJSONSuccess(w, http.StatusOK, full)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, public)
}

// Update godoc
// @Summary Update a user profile
// @Description Update the caller's own profile. Only the fields present are changed. Email must stay unique.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param body body UpdateUserRequest true "Fields to update"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{username} [patch]
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Update(r.Context(), actor, r.PathValue("username"), req.patch())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user
// @Description Delete the caller's own account together with the parties they created and every invitation they received or issued.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} controllers.DeleteSuccessResponse "data.status is deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{username} [delete]
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), actor, r.PathValue("username")); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, deleted)
}

