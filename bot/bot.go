// Package bot connects the Slack RTM stream to the command handlers.
package bot

import (
	"context"
	"strings"

	"github.com/nlopes/slack"
)

type (
	// Logger function
	Logger func(message string, args ...interface{})

	// Message is an incoming channel message with routing metadata.
	Message struct {
		Event         *slack.MessageEvent
		Text          string
		DirectedToBot bool
	}

	// Handler reacts to an incoming message.
	Handler interface {
		Handle(ctx context.Context, m Message, r Responder)
	}

	// HandlerFunc adapts a function to the Handler interface.
	HandlerFunc func(ctx context.Context, m Message, r Responder)

	// Responder sends replies for the message currently being handled.
	Responder interface {
		Respond(ctx context.Context, msg string)
		RespondWithAttachment(ctx context.Context, msg, attachment string)
		RespondPrivate(ctx context.Context, msg string)
	}
)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, m Message, r Responder) {
	f(ctx, m, r)
}

// Bot structure
type Bot struct {
	id        string
	name      string
	msgprefix string
	devMode   bool
	logf      Logger

	slackBotAPI *slack.Client
	handler     Handler
	seen        *dedup
	users       *userCache
}

// New creates a Bot around an authenticated Slack client.
func New(slackBotAPI *slack.Client, name string, devMode bool, logf Logger) *Bot {
	return &Bot{
		name:        name,
		devMode:     devMode,
		logf:        logf,
		slackBotAPI: slackBotAPI,
		seen:        newDedup(),
		users:       newUserCache(slackBotAPI, logf),
	}
}

// SetHandler installs the message handler. Must be called before messages
// arrive.
func (b *Bot) SetHandler(h Handler) {
	b.handler = h
}

// SetSelf records the bot's own user ID, learned from the connection event.
func (b *Bot) SetSelf(id string) {
	b.id = id
	b.msgprefix = strings.ToLower("<@" + id + ">")
	b.logf("Initialized %s with ID: %s\n", b.name, b.id)
}

// HandleMessage will process the incoming message and respond appropriately.
func (b *Bot) HandleMessage(event *slack.MessageEvent) {
	if event.BotID != "" || event.User == "" || event.SubType == "bot_message" {
		return
	}

	// The RTM stream can redeliver an event after a reconnect.
	if b.seen.seenBefore(event.Timestamp) {
		if b.devMode {
			b.logf("skipping duplicate message: %s\n", event.Timestamp)
		}
		return
	}

	eventText := strings.Trim(event.Text, " \n\r")

	if b.devMode {
		b.logf("got message: %s\n", eventText)
	}

	m := Message{
		Event:         event,
		Text:          eventText,
		DirectedToBot: b.isBotMessage(event, strings.ToLower(eventText)),
	}

	b.handler.Handle(context.Background(), m, &slackResponder{bot: b, event: event})
}

func (b *Bot) isBotMessage(event *slack.MessageEvent, eventText string) bool {
	prefixes := []string{
		b.msgprefix,
		strings.ToLower(b.name),
	}

	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(eventText, p) {
			return true
		}
	}

	// Direct message channels always starts with 'D'
	return strings.HasPrefix(event.Channel, "D")
}

// Close stops the bot's background maintenance goroutines.
func (b *Bot) Close() {
	b.seen.close()
}

// DisplayName resolves a user ID to a display name, caching the answer.
func (b *Bot) DisplayName(ctx context.Context, userID string) string {
	return b.users.displayName(ctx, userID)
}

type slackResponder struct {
	bot   *Bot
	event *slack.MessageEvent
}

func (r *slackResponder) Respond(ctx context.Context, msg string) {
	r.post(ctx, r.event.Channel, msg)
}

func (r *slackResponder) RespondWithAttachment(ctx context.Context, msg, attachment string) {
	if r.bot.devMode {
		r.bot.logf("should reply to message %s with %s + attachment %s\n", r.event.Text, msg, attachment)
		return
	}
	_, _, err := r.bot.slackBotAPI.PostMessageContext(ctx, r.event.Channel,
		slack.MsgOptionAsUser(true),
		slack.MsgOptionText(msg, false),
		slack.MsgOptionAttachments(slack.Attachment{Text: attachment}),
	)
	if err != nil {
		r.bot.logf("%s\n", err)
	}
}

func (r *slackResponder) RespondPrivate(ctx context.Context, msg string) {
	r.post(ctx, r.event.User, msg)
}

func (r *slackResponder) post(ctx context.Context, channel, msg string) {
	if r.bot.devMode {
		r.bot.logf("should reply to message %s with %s\n", r.event.Text, msg)
		return
	}
	_, _, err := r.bot.slackBotAPI.PostMessageContext(ctx, channel,
		slack.MsgOptionAsUser(true),
		slack.MsgOptionText(msg, false),
	)
	if err != nil {
		r.bot.logf("%s\n", err)
	}
}
