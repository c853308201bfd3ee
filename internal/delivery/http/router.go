package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"partyplanner/internal/delivery/http/controllers"
	"partyplanner/internal/delivery/http/middleware"
	"partyplanner/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Party      *controllers.PartyController
	Invitation *controllers.InvitationController
	Item       *controllers.ItemController
}

// NewRouter initializes the HTTP router with all application routes.
// Every route except login, registration and the docs requires a Bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("POST /users", c.User.Register)
	mux.HandleFunc("GET /users", auth(c.User.ListUsernames))
	mux.HandleFunc("GET /users/{username}", auth(c.User.GetProfile))
	mux.HandleFunc("PATCH /users/{username}", auth(c.User.Update))
	mux.HandleFunc("DELETE /users/{username}", auth(c.User.Delete))

	// Parties
	mux.HandleFunc("POST /parties", auth(c.Party.Create))
	mux.HandleFunc("GET /parties", auth(c.Party.ListMine))
	mux.HandleFunc("GET /parties/user/{username}", auth(c.Party.ListByCreator))
	mux.HandleFunc("GET /parties/{partyID}", auth(c.Party.Get))
	mux.HandleFunc("PATCH /parties/{partyID}", auth(c.Party.Update))
	mux.HandleFunc("DELETE /parties/{partyID}", auth(c.Party.Delete))

	// Invitations
	mux.HandleFunc("POST /invitations", auth(c.Invitation.Invite))
	mux.HandleFunc("GET /invitations", auth(c.Invitation.ListMine))
	mux.HandleFunc("GET /invitations/party/{partyID}", auth(c.Invitation.ListForParty))
	mux.HandleFunc("PATCH /invitations/{invitationID}", auth(c.Invitation.Update))
	mux.HandleFunc("DELETE /invitations/{invitationID}", auth(c.Invitation.Delete))

	// Items
	mux.HandleFunc("POST /items", auth(c.Item.Create))
	mux.HandleFunc("GET /items", auth(c.Item.ListMine))
	mux.HandleFunc("GET /items/party/{partyID}", auth(c.Item.ListForParty))
	mux.HandleFunc("GET /items/{itemID}", auth(c.Item.Get))
	mux.HandleFunc("PATCH /items/{itemID}", auth(c.Item.Update))
	mux.HandleFunc("DELETE /items/{itemID}", auth(c.Item.Delete))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
