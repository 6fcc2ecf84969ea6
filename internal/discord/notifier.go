package discord

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// Notifier implements moderation.Notifier by posting to a moderation log
// channel and sending DMs. With no log channel configured, LogAction is a
// no-op.
type Notifier struct {
	client       bot.Client
	logChannelID uint64
	logger       *zap.Logger
}

// NewNotifier creates a Notifier. LogChannelID may be zero to disable the
// log channel.
func NewNotifier(client bot.Client, logChannelID uint64, logger *zap.Logger) *Notifier {
	return &Notifier{
		client:       client,
		logChannelID: logChannelID,
		logger:       logger.Named("discord_notifier"),
	}
}

// LogAction posts a message to the moderation log channel.
func (n *Notifier) LogAction(ctx context.Context, guildID uint64, message string) error {
	if n.logChannelID == 0 {
		return nil
	}

	_, err := n.client.Rest().CreateMessage(snowflake.ID(n.logChannelID),
		discord.NewMessageCreateBuilder().SetContent(message).Build(),
		rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to post log message: %w", err)
	}

	return nil
}

// DirectMessage sends a notice to a user. Users with DMs disabled make this
// fail; callers treat that as best-effort.
func (n *Notifier) DirectMessage(ctx context.Context, userID uint64, message string) error {
	channel, err := n.client.Rest().CreateDMChannel(snowflake.ID(userID), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to create DM channel: %w", err)
	}

	_, err = n.client.Rest().CreateMessage(channel.ID(),
		discord.NewMessageCreateBuilder().SetContent(message).Build(),
		rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}

	return nil
}
