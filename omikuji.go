// Command omikuji
//
// This is a Slack bot that tells daily fortunes (omikuji), keeps a
// per-channel admin roster and answers custom trigger→response reactions.
//
// To run this you need to set the ` SLACK_BOT_TOKEN ` environment variable
// with the Slack bot token and ` OMIKUJI_FIXED_ADMIN ` with the user ID of
// the permanent administrator.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/nlopes/slack"
	"golang.org/x/sync/errgroup"

	_ "github.com/joho/godotenv/autoload"

	"github.com/omikujibot/omikuji/admin"
	"github.com/omikujibot/omikuji/bot"
	"github.com/omikujibot/omikuji/fortune"
	"github.com/omikujibot/omikuji/handlers"
	"github.com/omikujibot/omikuji/reaction"
)

var (
	botName    = os.Getenv("OMIKUJI_BOT_NAME")
	slackToken = os.Getenv("SLACK_BOT_TOKEN")
	fixedAdmin = os.Getenv("OMIKUJI_FIXED_ADMIN")
	dataDir    = os.Getenv("OMIKUJI_DATA_DIR")
	devMode    = os.Getenv("OMIKUJI_DEV_MODE") == "true"
	port       = os.Getenv("PORT")
)

func init() {
	if slackToken == "" {
		log.Fatal("slack token must be set in the SLACK_BOT_TOKEN environment variable")
	}

	if fixedAdmin == "" {
		log.Fatal("fixed admin user ID must be set in the OMIKUJI_FIXED_ADMIN environment variable")
	}

	if botName == "" {
		botName = "omikuji"
	}

	if dataDir == "" {
		dataDir = "config"
	}

	if port == "" {
		port = "3000"
	}
}

func main() {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("failed to create data directory %s: %v", dataDir, err)
	}

	adminRegistry, err := admin.New(filepath.Join(dataDir, "admin_users.json"), fixedAdmin)
	if err != nil {
		log.Fatalf("failed to load admin registry: %v", err)
	}

	reactions, err := reaction.New(filepath.Join(dataDir, "reactions.json"))
	if err != nil {
		log.Fatalf("failed to load reactions: %v", err)
	}

	ledger, err := fortune.NewLedger(filepath.Join(dataDir, "omikuji_history.json"), log.Printf)
	if err != nil {
		log.Fatalf("failed to load omikuji history: %v", err)
	}

	slackBotAPI := slack.New(slackToken)
	b := bot.New(slackBotAPI, botName, devMode, log.Printf)
	defer b.Close()

	b.SetHandler(handlers.ProcessLinear(
		handlers.Omikuji(ledger, log.Printf),
		handlers.OmikujiHistory(ledger, adminRegistry, b, log.Printf),
		handlers.AdminList(adminRegistry, b, log.Printf),
		handlers.AdminAdd(adminRegistry, b, log.Printf),
		handlers.AdminRemove(adminRegistry, b, log.Printf),
		handlers.ReactionRegister(reactions, log.Printf),
		handlers.ReactionDelete(reactions, adminRegistry, log.Printf),
		handlers.ReactionList(reactions, log.Printf),
		handlers.Help(adminRegistry, log.Printf),
		handlers.RespondWithReaction(reactions, log.Printf),
	))

	rtm := slackBotAPI.NewRTM()

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		rtm.ManageConnection()
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return rtm.Disconnect()
			case msg := <-rtm.IncomingEvents:
				switch event := msg.Data.(type) {
				case *slack.ConnectedEvent:
					b.SetSelf(event.Info.User.ID)
				case *slack.MessageEvent:
					go b.HandleMessage(event)
				case *slack.InvalidAuthEvent:
					return errors.New("invalid slack credentials")
				}
			}
		}
	})

	router := mux.NewRouter()
	router.HandleFunc("/health-check", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Health check passed"))
	}).Methods(http.MethodGet)

	server := &http.Server{Addr: ":" + port, Handler: router}

	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})

	g.Go(func() error {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return nil
		case sig := <-stop:
			log.Printf("received %v, shutting down", sig)
			return errors.New("shutdown requested")
		}
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
