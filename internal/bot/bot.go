// Package bot wires the moderation engine to Discord slash commands. The
// handlers are presentation glue only; every decision lives in the
// moderation package.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	warden "github.com/wardenbot/warden/internal/discord"
	"github.com/wardenbot/warden/internal/moderation"
	"github.com/wardenbot/warden/internal/redis"
	"github.com/wardenbot/warden/internal/setup"
	"go.uber.org/zap"
)

// Bot owns the Discord client and the engine services the command handlers
// call into.
type Bot struct {
	client    bot.Client
	evaluator *moderation.Evaluator
	bans      *moderation.BanManager
	strikes   *moderation.StrikeLadder
	rules     *moderation.RuleService
	history   *moderation.HistoryService
	// banRetention is the message deletion window passed to platform bans.
	banRetention time.Duration
	logger       *zap.Logger
}

// New builds the engine services on top of the app's database and cache
// connections and configures the Discord client.
func New(app *setup.App) (*Bot, error) {
	b := &Bot{
		banRetention: time.Duration(app.Config.Moderation.BanMessageRetentionSeconds) * time.Second,
		logger:       app.Logger.Named("bot"),
	}

	client, err := disgo.New(app.Config.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	b.client = client

	cacheClient, err := app.RedisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache client: %w", err)
	}

	banCache := moderation.NewBanCache(cacheClient,
		time.Duration(app.Config.Moderation.BanCacheTTLSeconds)*time.Second, app.Logger)

	directory := warden.NewDirectory(client, app.Config.Discord.StaffLadderRoleIDs, app.Logger)
	notifier := warden.NewNotifier(client, app.Config.Discord.LogChannelID, app.Logger)

	repo := app.DB.Model()

	b.bans = moderation.NewBanManager(
		repo.ActiveBan(), repo.Infraction(), directory, notifier, banCache, app.Logger)
	b.evaluator = moderation.NewEvaluator(
		repo.Infraction(), repo.EscalationRule(), b.bans, directory, notifier, app.Logger)
	b.strikes = moderation.NewStrikeLadder(
		repo.StaffStrike(), repo.StrikeRule(), directory, notifier,
		time.Duration(app.Config.Moderation.StrikeTTLDays)*24*time.Hour, app.Logger)
	b.rules = moderation.NewRuleService(repo.EscalationRule(), repo.StrikeRule(), app.Logger)
	b.history = moderation.NewHistoryService(repo.Infraction(), notifier, app.Logger)

	return b, nil
}

// Start registers the command surface and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	if _, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), Commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(ctx)
}

// Close shuts down the gateway connection.
func (b *Bot) Close() {
	b.logger.Info("Closing bot")
	b.client.Close(context.Background())
}

// handleApplicationCommandInteraction defers the response, then runs the
// matching handler in a goroutine so slow punishments never trip Discord's
// interaction deadline.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		if err := event.DeferCreateMessage(true); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		data := event.SlashCommandInteractionData()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in command handler",
					zap.String("command", data.CommandName()),
					zap.Any("panic", r))
				b.respond(event, "Internal error. Please report this to an administrator.")
			}
			b.logger.Debug("Command handled",
				zap.String("command", data.CommandName()),
				zap.Duration("duration", time.Since(start)))
		}()

		ctx := context.Background()

		if event.GuildID() == nil {
			b.respond(event, "This command only works inside a guild.")
			return
		}

		switch data.CommandName() {
		case "warn":
			b.handleWarn(ctx, event, data)
		case "timeout":
			b.handleTimeout(ctx, event, data)
		case "ban":
			b.handleBan(ctx, event, data)
		case "unban":
			b.handleUnban(ctx, event, data)
		case "strike":
			b.handleStrike(ctx, event, data)
		case "case":
			b.handleCase(ctx, event, data)
		case "clear":
			b.handleClear(ctx, event, data)
		case "rules":
			b.handleRules(ctx, event, data)
		default:
			b.respond(event, "Unknown command.")
		}
	}()
}

// respond replaces the deferred response with the final message.
func (b *Bot) respond(event *events.ApplicationCommandInteractionCreate, message string) {
	_, err := b.client.Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().SetContent(message).Build())
	if err != nil {
		b.logger.Error("Failed to update interaction response", zap.Error(err))
	}
}
