package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wardenbot/warden/internal/bot"
	"github.com/wardenbot/warden/internal/setup"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"
)

func main() {
	ctx := context.Background()

	app, err := setup.InitializeApp(ctx, BotLogDir)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.CleanupApp()

	discordBot, err := bot.New(app)
	if err != nil {
		log.Printf("Failed to create bot: %v", err)
		return
	}

	if err := discordBot.Start(ctx); err != nil {
		log.Printf("Failed to start bot: %v", err)
		return
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	discordBot.Close()
}
