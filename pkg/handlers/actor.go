package handlers

import (
	"net/http"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/middleware"
	"github.com/plantops/skilltrack/pkg/services"
)

// actorFromRequest builds the acting identity from the authenticated claims
// and the client address. Handlers behind RequireAuth can rely on claims
// being present; the zero actor only appears if a route is misregistered.
func actorFromRequest(r *http.Request) services.Actor {
	actor := services.Actor{IP: middleware.ClientIP(r)}
	if claims, ok := auth.GetClaims(r.Context()); ok {
		actor.ID = claims.UserID
		actor.Name = claims.Username
	}
	return actor
}
