package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/urfave/cli/v3"
	warden "github.com/wardenbot/warden/internal/discord"
	"github.com/wardenbot/warden/internal/moderation"
	"github.com/wardenbot/warden/internal/redis"
	"github.com/wardenbot/warden/internal/setup"
	"github.com/wardenbot/warden/internal/sweeper"
)

const (
	// SweeperLogDir specifies where sweeper log files are stored.
	SweeperLogDir = "logs/sweeper_logs"
)

func main() {
	cmd := &cli.Command{
		Name:  "sweeper",
		Usage: "Lift expired temporary bans",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Run a single sweep and exit",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(ctx, c.Bool("once"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, once bool) error {
	app, err := setup.InitializeApp(ctx, SweeperLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.CleanupApp()

	// REST-only client; the sweeper never opens a gateway connection.
	client, err := disgo.New(app.Config.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord client: %w", err)
	}
	defer client.Close(ctx)

	cacheClient, err := app.RedisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		return fmt.Errorf("failed to get cache client: %w", err)
	}

	banCache := moderation.NewBanCache(cacheClient,
		time.Duration(app.Config.Moderation.BanCacheTTLSeconds)*time.Second, app.Logger)
	directory := warden.NewDirectory(client, app.Config.Discord.StaffLadderRoleIDs, app.Logger)
	notifier := warden.NewNotifier(client, app.Config.Discord.LogChannelID, app.Logger)

	repo := app.DB.Model()
	manager := moderation.NewBanManager(
		repo.ActiveBan(), repo.Infraction(), directory, notifier, banCache, app.Logger)

	s := sweeper.New(
		repo.ActiveBan(), manager,
		time.Duration(app.Config.Sweeper.IntervalSeconds)*time.Second,
		app.Config.Sweeper.BatchSize,
		app.Config.Sweeper.Concurrency,
		app.Logger,
	)

	if once {
		lifted, err := s.Sweep(ctx)
		if err != nil {
			return err
		}
		log.Printf("Sweep complete, lifted %d bans", lifted)
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer cancel()

	s.Start(ctx)

	return nil
}
