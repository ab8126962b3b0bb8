// Package handlers implements the bot's user-facing commands.
package handlers

import (
	"context"
	"fmt"

	"github.com/omikujibot/omikuji/bot"
)

// UserNamer resolves a Slack user ID to a human-readable name.
type UserNamer interface {
	DisplayName(ctx context.Context, userID string) string
}

// ProcessLinear calls handlers in order.
func ProcessLinear(hs ...bot.Handler) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		for _, h := range hs {
			h.Handle(ctx, m, r)
		}
	})
}

// denyNonAdmin posts the standard admins-only refusal.
func denyNonAdmin(ctx context.Context, m bot.Message, r bot.Responder) {
	r.Respond(ctx, fmt.Sprintf("<@%s>さん、このコマンドは管理者専用です。 :lock:", m.Event.User))
}
