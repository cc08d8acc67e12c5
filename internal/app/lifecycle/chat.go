package lifecycle

import (
	"context"
	"time"

	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PostMessage appends a chat message to an existing request.
func (e *Engine) PostMessage(ctx context.Context, a *actor.Actor, id, message string) (_ models.ChatMessageView, err error) {
	defer e.observe("chat_post", time.Now(), &err)

	if err := e.policy.CanChat(a); err != nil {
		return models.ChatMessageView{}, err
	}
	message = htmlsanitize.PlainText(message)
	if message == "" {
		return models.ChatMessageView{}, apperr.Validation("message is required")
	}

	ctx, cancel := newCtx(ctx)
	defer cancel()

	req, err := e.load(ctx, id)
	if err != nil {
		return models.ChatMessageView{}, err
	}
	m, err := e.chat.Append(ctx, req.ID, a.ID, message)
	if err != nil {
		return models.ChatMessageView{}, storeErr("append chat message", err)
	}
	e.audit.ChatMessagePosted(ctx, a.ID, req.ID, m.ID)

	views := e.messageViews(ctx, []models.ChatMessage{m})
	return views[0], nil
}

// Messages lists a request's chat log, oldest first. Messages of a deleted
// request remain readable.
func (e *Engine) Messages(ctx context.Context, a *actor.Actor, id string) (_ []models.ChatMessageView, err error) {
	defer e.observe("chat_list", time.Now(), &err)

	if err := e.policy.CanChat(a); err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := timeouts.WithMedium(ctx)
	defer cancel()

	msgs, err := e.chat.List(ctx, oid)
	if err != nil {
		return nil, storeErr("list chat messages", err)
	}
	return e.messageViews(ctx, msgs), nil
}

func (e *Engine) messageViews(ctx context.Context, msgs []models.ChatMessage) []models.ChatMessageView {
	var refs map[primitive.ObjectID]models.UserRef
	if len(msgs) > 0 && e.users != nil {
		ids := make([]primitive.ObjectID, 0, len(msgs))
		for _, m := range msgs {
			ids = append(ids, m.Author)
		}
		var err error
		if refs, err = e.users.LookupRefs(ctx, ids); err != nil {
			e.log.Warn("populate chat authors", zap.Error(err))
		}
	}

	out := make([]models.ChatMessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, models.ChatMessageView{
			ID:        m.ID,
			Request:   m.Request,
			Author:    userstore.RefFor(refs, m.Author),
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return out
}
