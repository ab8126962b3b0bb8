package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/omikujibot/omikuji/admin"
	"github.com/omikujibot/omikuji/bot"
	"github.com/omikujibot/omikuji/fortune"
)

var (
	omikujiRE        = regexp.MustCompile(`^おみくじ$`)
	omikujiHistoryRE = regexp.MustCompile(`^おみくじ履歴$`)
)

// Omikuji draws the user's daily fortune, limited to one draw per user per
// channel per day.
func Omikuji(ledger *fortune.Ledger, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		if !omikujiRE.MatchString(m.Text) {
			return
		}

		result, err := ledger.Claim(m.Event.Channel, m.Event.User)
		switch {
		case err == fortune.ErrAlreadyDrawn:
			r.Respond(ctx, fmt.Sprintf(
				"<@%s>さん、今日はすでにおみくじを引いています。\n*また明日チャレンジしてください！* :pray:",
				m.Event.User))
		case err != nil:
			logf("failed to record omikuji result: %v\n", err)
			r.Respond(ctx, "おみくじの処理中にエラーが発生しました。 :x:")
		default:
			r.Respond(ctx, fmt.Sprintf("<@%s>さんの運勢は...\n\n*%s*", m.Event.User, result))
		}
	})
}

// OmikujiHistory shows admins who drew what today in the channel.
func OmikujiHistory(ledger *fortune.Ledger, reg *admin.Registry, names UserNamer, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		if !omikujiHistoryRE.MatchString(m.Text) {
			return
		}
		if !reg.IsAdmin(m.Event.Channel, m.Event.User) {
			denyNonAdmin(ctx, m, r)
			return
		}

		logs := ledger.History(m.Event.Channel)
		if len(logs) == 0 {
			r.Respond(ctx, "*今日のおみくじ履歴*\n今日はまだ誰もおみくじを引いていません :ghost:")
			return
		}

		lines := make([]string, 0, len(logs))
		for _, line := range logs {
			name := names.DisplayName(ctx, line.UserID)
			lines = append(lines, fmt.Sprintf("• %s - %s さん: *%s*", line.Time, name, line.Fortune))
		}

		r.Respond(ctx, fmt.Sprintf("*今日のおみくじ履歴* 📝\n%s\n合計: %d件",
			strings.Join(lines, "\n"), len(logs)))
	})
}
