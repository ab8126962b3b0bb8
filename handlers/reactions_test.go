package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/omikujibot/omikuji/reaction"
)

func TestReactionRegister(t *testing.T) {
	table := newTestTable(t)
	h := ReactionRegister(table, discardLog)

	t.Run("ignores other text", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "反応登録"), &tr)
		if len(tr.msgs) != 0 {
			t.Errorf("expected no response, got %q", tr.msgs)
		}
	})

	t.Run("registers exact by default", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "反応登録 こんにちは/やあ！"), &tr)

		if !strings.Contains(tr.last(), "カスタム応答を登録しました") {
			t.Errorf("unexpected response: %q", tr.last())
		}
		if len(tr.attachments) != 1 {
			t.Fatalf("expected the details as an attachment, got %q", tr.attachments)
		}
		for _, want := range []string{"`こんにちは`", "完全", "やあ！"} {
			if !strings.Contains(tr.attachments[0], want) {
				t.Errorf("expected attachment to contain %q, got %q", want, tr.attachments[0])
			}
		}

		response, ok := table.Resolve("C1", "こんにちは")
		if !ok || response != "やあ！" {
			t.Errorf("expected registered response, got %q, %v", response, ok)
		}
	})

	t.Run("registers partial mode", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "反応登録 ping(部分)/pong"), &tr)

		if len(tr.attachments) != 1 || !strings.Contains(tr.attachments[0], "部分") {
			t.Errorf("unexpected attachment: %q", tr.attachments)
		}
		response, ok := table.Resolve("C1", "pingping")
		if !ok || response != "pong" {
			t.Errorf("expected partial match, got %q, %v", response, ok)
		}
	})

	t.Run("rejects unknown modes", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "反応登録 foo(曖昧)/bar"), &tr)

		if !strings.Contains(tr.last(), "「部分」または「完全」を指定してください") {
			t.Errorf("unexpected response: %q", tr.last())
		}
		if table.Has("C1", "foo") {
			t.Error("invalid registration must not persist")
		}
	})
}

func TestReactionDelete(t *testing.T) {
	table := newTestTable(t)
	reg := newTestRegistry(t)
	h := ReactionDelete(table, reg, discardLog)

	if err := table.Register("C1", "こんにちは", "やあ！", reaction.MatchExact); err != nil {
		t.Fatal(err)
	}

	t.Run("denies non-admins", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "反応削除 こんにちは"), &tr)
		if !strings.Contains(tr.last(), "管理者専用") {
			t.Errorf("unexpected response: %q", tr.last())
		}
		if !table.Has("C1", "こんにちは") {
			t.Error("trigger must survive a denied delete")
		}
	})

	t.Run("deletes registered triggers", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", fixedAdmin, "反応削除 こんにちは"), &tr)

		if !strings.Contains(tr.last(), "カスタム応答を削除しました") {
			t.Errorf("unexpected response: %q", tr.last())
		}
		if len(tr.attachments) != 1 || !strings.Contains(tr.attachments[0], "`こんにちは`") {
			t.Errorf("expected the trigger in the attachment, got %q", tr.attachments)
		}
		if table.Has("C1", "こんにちは") {
			t.Error("trigger should be gone")
		}
	})

	t.Run("reports unknown triggers", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", fixedAdmin, "反応削除 こんにちは"), &tr)
		if !strings.Contains(tr.last(), "応答は登録されていません") {
			t.Errorf("unexpected response: %q", tr.last())
		}
	})
}

func TestReactionList(t *testing.T) {
	table := newTestTable(t)
	h := ReactionList(table, discardLog)

	t.Run("empty table", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "反応一覧"), &tr)
		if !strings.Contains(tr.last(), "登録されているカスタム応答はありません") {
			t.Errorf("unexpected response: %q", tr.last())
		}
	})

	t.Run("lists entries in registration order", func(t *testing.T) {
		if err := table.Register("C1", "zz", "first", reaction.MatchPartial); err != nil {
			t.Fatal(err)
		}
		if err := table.Register("C1", "aa", "second", reaction.MatchExact); err != nil {
			t.Fatal(err)
		}

		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "反応一覧"), &tr)

		got := tr.last()
		zz := strings.Index(got, "• `zz` (部分) → first")
		aa := strings.Index(got, "• `aa` (完全) → second")
		if zz == -1 || aa == -1 || zz > aa {
			t.Errorf("expected zz before aa in %q", got)
		}
		if !strings.Contains(got, "合計: 2件") {
			t.Errorf("expected total in %q", got)
		}
	})
}

func TestRespondWithReaction(t *testing.T) {
	table := newTestTable(t)
	h := RespondWithReaction(table, discardLog)

	if err := table.Register("C1", "こんにちは", "やあ！", reaction.MatchExact); err != nil {
		t.Fatal(err)
	}

	t.Run("answers a matching message", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "こんにちは"), &tr)
		if tr.last() != "やあ！" {
			t.Errorf("expected やあ！, got %q", tr.last())
		}
	})

	t.Run("stays silent without a match", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), message("C1", "U1", "さようなら"), &tr)
		if len(tr.msgs) != 0 {
			t.Errorf("expected no response, got %q", tr.msgs)
		}
	})

	t.Run("skips messages directed at the bot", func(t *testing.T) {
		var tr testResponder
		h.Handle(context.Background(), directed("C1", "U1", "こんにちは"), &tr)
		if len(tr.msgs) != 0 {
			t.Errorf("expected no response, got %q", tr.msgs)
		}
	})
}
