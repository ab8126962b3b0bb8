package handlers

import (
	"context"
	"strings"
	"testing"
)

func TestHelp(t *testing.T) {
	reg := newTestRegistry(t)
	h := Help(reg, discardLog)

	t.Run("ignores ordinary channel chatter", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "ヘルプ"), &tr)
		if len(tr.msgs) != 0 {
			t.Errorf("expected no response, got %q", tr.msgs)
		}
	})

	t.Run("answers mentions with the command list", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), directed("C1", "U1", "ヘルプ"), &tr)

		got := tr.last()
		for _, want := range []string{"使用可能なコマンド", "`おみくじ`", "`反応一覧`"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected response to contain %q, got %q", want, got)
			}
		}
		if len(tr.private) != 0 {
			t.Errorf("expected no DM, got %q", tr.private)
		}
	})

	t.Run("sends admins the admin commands as a DM", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), directed("C1", fixedAdmin, "管理者用"), &tr)

		if len(tr.private) != 1 || !strings.Contains(tr.private[0], "管理者用コマンド一覧") {
			t.Errorf("expected admin DM, got %q", tr.private)
		}
		if !strings.Contains(tr.last(), "DMをご確認ください") {
			t.Errorf("unexpected channel response: %q", tr.last())
		}
	})

	t.Run("gives non-admins the general list even for 管理者用", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), directed("C1", "U1", "管理者用"), &tr)

		if len(tr.private) != 0 {
			t.Errorf("expected no DM, got %q", tr.private)
		}
		if !strings.Contains(tr.last(), "使用可能なコマンド") {
			t.Errorf("unexpected response: %q", tr.last())
		}
	})
}
