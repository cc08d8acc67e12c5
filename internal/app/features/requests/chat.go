// internal/app/features/requests/chat.go
package requests

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/respond"
)

type chatBody struct {
	Message string `json:"message"`
}

// ServeChat handles GET /api/requests/{id}/chat.
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Engine.Messages(r.Context(), actor.Current(r), requestID(r))
	if err != nil {
		respond.Error(w, h.Log, "chatMessages", err)
		return
	}
	respond.JSON(w, http.StatusOK, msgs)
}

// HandlePostChat handles POST /api/requests/{id}/chat with {"message": "..."}.
func (h *Handler) HandlePostChat(w http.ResponseWriter, r *http.Request) {
	var body chatBody
	if err := respond.DecodeJSON(r, &body); err != nil {
		respond.Error(w, h.Log, "postChatMessage", err)
		return
	}
	msg, err := h.Engine.PostMessage(r.Context(), actor.Current(r), requestID(r), body.Message)
	if err != nil {
		respond.Error(w, h.Log, "postChatMessage", err)
		return
	}
	respond.JSON(w, http.StatusCreated, msg)
}
