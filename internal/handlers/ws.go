package handlers

import (
	"net/http"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/auth"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/websocket"
)

// WSReviews authenticates with the token query parameter, since browsers
// cannot set headers on a websocket handshake.
func (h *Handler) WSReviews(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseToken(h.cfg.JWTSecret, r.URL.Query().Get("token"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	websocket.ServeWS(w, r, h.upgrader, h.hub, websocket.ChannelsFor(claims.Role))
}
