package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/omikujibot/omikuji/admin"
	"github.com/omikujibot/omikuji/bot"
	"github.com/omikujibot/omikuji/reaction"
)

var (
	// トリガー(モード)/応答, with the mode defaulting to 完全 when omitted.
	reactionRegisterModeRE = regexp.MustCompile(`^反応登録\s+([^(]+)\(([^)]+)\)/(.+)$`)
	reactionRegisterRE     = regexp.MustCompile(`^反応登録\s+([^/]+)/(.+)$`)
	reactionDeleteRE       = regexp.MustCompile(`^反応削除\s+(.+)$`)
	reactionListRE         = regexp.MustCompile(`^反応一覧$`)
)

// ReactionRegister registers a custom trigger→response pair in the channel.
func ReactionRegister(table *reaction.Table, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		var trigger, response string
		var match reaction.MatchType

		if matches := reactionRegisterModeRE.FindStringSubmatch(m.Text); matches != nil {
			trigger = strings.TrimSpace(matches[1])
			match = matchTypeFromToken(matches[2])
			response = strings.TrimSpace(matches[3])
		} else if matches := reactionRegisterRE.FindStringSubmatch(m.Text); matches != nil {
			trigger = strings.TrimSpace(matches[1])
			match = reaction.MatchExact
			response = strings.TrimSpace(matches[2])
		} else {
			return
		}

		err := table.Register(m.Event.Channel, trigger, response, match)
		switch {
		case err == reaction.ErrInvalidMatchType:
			r.Respond(ctx, "マッチングタイプは「部分」または「完全」を指定してください。 :x:")
		case err != nil:
			logf("failed to register reaction %q: %v\n", trigger, err)
			r.Respond(ctx, "カスタム応答の登録中にエラーが発生しました。 :x:")
		default:
			r.RespondWithAttachment(ctx, "✨ カスタム応答を登録しました",
				fmt.Sprintf("*トリガー:* `%s`\n*マッチング:* %s\n*応答:* %s",
					trigger, matchTypeLabel(match), response))
		}
	})
}

// ReactionDelete removes a registered trigger. Admins only.
func ReactionDelete(table *reaction.Table, reg *admin.Registry, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		matches := reactionDeleteRE.FindStringSubmatch(m.Text)
		if matches == nil {
			return
		}
		if !reg.IsAdmin(m.Event.Channel, m.Event.User) {
			denyNonAdmin(ctx, m, r)
			return
		}

		trigger := strings.TrimSpace(matches[1])
		removed, err := table.Unregister(m.Event.Channel, trigger)
		switch {
		case err != nil:
			logf("failed to delete reaction %q: %v\n", trigger, err)
			r.Respond(ctx, "カスタム応答の削除中にエラーが発生しました。 :x:")
		case !removed:
			r.Respond(ctx, fmt.Sprintf("このチャンネルには「`%s`」に対する応答は登録されていません。 :x:", trigger))
		default:
			r.RespondWithAttachment(ctx, "🗑️ カスタム応答を削除しました",
				fmt.Sprintf("トリガー「`%s`」の応答を削除しました。", trigger))
		}
	})
}

// ReactionList shows the channel's registered responses in registration order.
func ReactionList(table *reaction.Table, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		if !reactionListRE.MatchString(m.Text) {
			return
		}

		entries := table.List(m.Event.Channel)
		if len(entries) == 0 {
			r.Respond(ctx, "このチャンネルには登録されているカスタム応答はありません。 :x:")
			return
		}

		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("• `%s` (%s) → %s", e.Trigger, matchTypeLabel(e.Match), e.Response))
		}

		r.Respond(ctx, fmt.Sprintf("📝 *カスタム応答一覧*\n%s\n合計: %d件",
			strings.Join(lines, "\n"), len(entries)))
	})
}

// RespondWithReaction answers any ordinary message that matches a registered
// trigger. Messages directed at the bot are left to the help handler.
func RespondWithReaction(table *reaction.Table, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		if m.DirectedToBot {
			return
		}

		if response, ok := table.Resolve(m.Event.Channel, m.Text); ok {
			r.Respond(ctx, response)
		}
	})
}

// matchTypeFromToken maps the command grammar's mode spellings onto match
// types. Unknown tokens pass through unchanged so Register rejects them.
func matchTypeFromToken(token string) reaction.MatchType {
	switch strings.TrimSpace(token) {
	case "完全":
		return reaction.MatchExact
	case "部分":
		return reaction.MatchPartial
	}
	return reaction.MatchType(strings.TrimSpace(token))
}

func matchTypeLabel(match reaction.MatchType) string {
	if match == reaction.MatchPartial {
		return "部分"
	}
	return "完全"
}
