package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// session abstracts the discordgo.Session methods we use, enabling test
// mocks.
type session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Close() error
}

// DiscordNotifier posts events to a Discord channel as embeds.
type DiscordNotifier struct {
	sess      session
	channelID string
}

// DiscordOpts holds parameters for creating a DiscordNotifier.
type DiscordOpts struct {
	BotToken  string
	ChannelID string
	// For testing: inject a mock session instead of the real gateway.
	Session session
}

// NewDiscord creates a Discord notifier.
func NewDiscord(opts DiscordOpts) (*DiscordNotifier, error) {
	if opts.Session == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("notify: discord bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("notify: discord channel is required")
	}

	sess := opts.Session
	if sess == nil {
		s, err := discordgo.New("Bot " + opts.BotToken)
		if err != nil {
			return nil, fmt.Errorf("notify: discord session: %w", err)
		}
		sess = s
	}
	return &DiscordNotifier{sess: sess, channelID: opts.ChannelID}, nil
}

// Send posts the event as an embed with the event color.
func (n *DiscordNotifier) Send(ctx context.Context, event Event) error {
	embed := &discordgo.MessageEmbed{
		Title:       event.Title,
		Description: event.Body,
		Color:       hexColor(event.Color),
	}
	if _, err := n.sess.ChannelMessageSendEmbed(n.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("notify: discord post: %w", err)
	}
	return nil
}

// Close shuts down the underlying session.
func (n *DiscordNotifier) Close() error {
	return n.sess.Close()
}

// hexColor converts a "#rrggbb" hint to the integer Discord expects.
func hexColor(color string) int {
	trimmed := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if value, err := strconv.ParseInt(trimmed, 16, 32); err == nil {
		return int(value)
	}
	return 0
}
