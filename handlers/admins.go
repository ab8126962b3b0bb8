package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/omikujibot/omikuji/admin"
	"github.com/omikujibot/omikuji/bot"
)

var (
	adminListRE   = regexp.MustCompile(`^管理者一覧$`)
	adminAddRE    = regexp.MustCompile(`^管理者追加\s+([UW][A-Z0-9]+)$`)
	adminRemoveRE = regexp.MustCompile(`^管理者削除\s+([UW][A-Z0-9]+)$`)
)

// AdminList shows admins the channel's admin roster, fixed admin first.
func AdminList(reg *admin.Registry, names UserNamer, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		if !adminListRE.MatchString(m.Text) {
			return
		}
		if !reg.IsAdmin(m.Event.Channel, m.Event.User) {
			denyNonAdmin(ctx, m, r)
			return
		}

		roster := reg.ListAdmins(m.Event.Channel)
		r.Respond(ctx, fmt.Sprintf("👥 *管理者一覧*\n%s\n合計: %d名",
			formatAdminList(ctx, names, roster), len(roster)))
	})
}

// AdminAdd grants another user the admin role in the channel.
func AdminAdd(reg *admin.Registry, names UserNamer, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		matches := adminAddRE.FindStringSubmatch(m.Text)
		if matches == nil {
			return
		}
		if !reg.IsAdmin(m.Event.Channel, m.Event.User) {
			denyNonAdmin(ctx, m, r)
			return
		}

		target := matches[1]
		if target == reg.FixedAdmin() {
			r.Respond(ctx, "指定されたユーザーは固定管理者のため、追加できません。 :information_source:")
			return
		}

		reg.InitializeChannel(m.Event.Channel)

		err := reg.AddAdmin(m.Event.Channel, target)
		switch {
		case err == admin.ErrAlreadyAdmin:
			r.Respond(ctx, fmt.Sprintf("%sさんは既にこのチャンネルの管理者です。 :information_source:",
				names.DisplayName(ctx, target)))
		case err != nil:
			logf("failed to add admin %s: %v\n", target, err)
			r.Respond(ctx, "管理者の追加中にエラーが発生しました。 :x:")
		default:
			r.Respond(ctx, fmt.Sprintf("%sさんをこのチャンネルの管理者に追加しました。 :white_check_mark:\n*現在の管理者一覧:*\n%s",
				names.DisplayName(ctx, target),
				formatAdminList(ctx, names, reg.ListAdmins(m.Event.Channel))))
		}
	})
}

// AdminRemove revokes a user's admin role in the channel.
func AdminRemove(reg *admin.Registry, names UserNamer, logf bot.Logger) bot.Handler {
	return bot.HandlerFunc(func(ctx context.Context, m bot.Message, r bot.Responder) {
		matches := adminRemoveRE.FindStringSubmatch(m.Text)
		if matches == nil {
			return
		}
		if !reg.IsAdmin(m.Event.Channel, m.Event.User) {
			denyNonAdmin(ctx, m, r)
			return
		}

		target := matches[1]
		err := reg.RemoveAdmin(m.Event.Channel, target)
		switch {
		case err == admin.ErrProtectedAdmin:
			r.Respond(ctx, "固定管理者は削除できません。 :warning:")
		case err == admin.ErrNotAdmin:
			r.Respond(ctx, fmt.Sprintf("%sさんはこのチャンネルの管理者ではありません。 :information_source:",
				names.DisplayName(ctx, target)))
		case err != nil:
			logf("failed to remove admin %s: %v\n", target, err)
			r.Respond(ctx, "管理者の削除中にエラーが発生しました。 :x:")
		default:
			r.Respond(ctx, fmt.Sprintf("%sさんをこのチャンネルの管理者から削除しました。 :white_check_mark:\n*現在の管理者一覧:*\n%s",
				names.DisplayName(ctx, target),
				formatAdminList(ctx, names, reg.ListAdmins(m.Event.Channel))))
		}
	})
}

// formatAdminList renders a roster from ListAdmins, whose first entry is
// always the fixed admin.
func formatAdminList(ctx context.Context, names UserNamer, roster []string) string {
	lines := make([]string, 0, len(roster))
	for i, id := range roster {
		name := names.DisplayName(ctx, id)
		if i == 0 {
			lines = append(lines, fmt.Sprintf("• %s (%s) [固定管理者]", name, id))
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)", name, id))
	}
	return strings.Join(lines, "\n")
}
