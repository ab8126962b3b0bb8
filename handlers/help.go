package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/omikujibot/omikuji/admin"
	"github.com/omikujibot/omikuji/bot"
)

var generalHelp = []string{
	`*基本コマンド*`,
	"• `おみくじ` - 今日の運勢を占います（1日1回まで）",
	`*カスタム応答コマンド*`,
	"• `反応登録 トリガー/応答` - 新しい応答を登録（完全一致）",
	"• `反応登録 トリガー(部分)/応答` - 新しい応答を登録（部分一致）",
	"• `反応登録 トリガー(完全)/応答` - 新しい応答を登録（完全一致）",
	"• `反応削除 トリガー` - 登録済みの応答を削除（管理者のみ）",
	"• `反応一覧` - 登録されている応答の一覧を表示",
	`💡 管理者用コマンドを確認するには「管理者用」と入力してください（管理者のみ）`,
}

var adminHelp = []string{
	`👑 *管理者用コマンド一覧*`,
	"• `管理者追加 [ユーザーID]` - 新しい管理者を追加",
	"• `管理者削除 [ユーザーID]` - 管理者を削除",
	"• `管理者一覧` - 現在の管理者一覧を表示",
	"• `おみくじ履歴` - 今日のおみくじ結果一覧を表示",
	"• `反応削除 [トリガー]` - 登録済みの応答を削除（管理者のみ）",
}

// Help answers mentions with the command list. Admins asking for 管理者用
// get the admin command list as a direct message.
func Help(reg *admin.Registry, logf bot.Logger) bot.Handler {
	general := strings.Join(generalHelp, "\n")
	forAdmins := strings.Join(adminHelp, "\n")

	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		if !m.DirectedToBot {
			return
		}

		if strings.Contains(m.Text, "管理者用") && reg.IsAdmin(m.Event.Channel, m.Event.User) {
			r.RespondPrivate(ctx, forAdmins)
			r.Respond(ctx, fmt.Sprintf("<@%s>さん、DMをご確認ください。 :envelope:", m.Event.User))
			return
		}

		r.Respond(ctx, fmt.Sprintf("🎯 *使用可能なコマンド*\n<@%s>さん、以下のコマンドが使えます：\n%s",
			m.Event.User, general))
	})
}
