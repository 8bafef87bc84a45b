// Package discord connects the command handler to a Discord gateway session.
package discord

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/vexilux/internal/config"
	"github.com/keshon/vexilux/pkg/cmd"
	"github.com/keshon/vexilux/pkg/jobmgr"
)

// Bot is a Discord bot
type Bot struct {
	cfg     *config.Config
	handler *cmd.Handler
	dg      *discordgo.Session
	ctx     context.Context
	jobs    *jobmgr.Manager

	mu     sync.RWMutex
	selfID string
}

// New prepares a bot around handler. When mention prefixes are enabled the
// handler's prefix resolver is wrapped so that "@bot cmd" works too.
func New(cfg *config.Config, handler *cmd.Handler) *Bot {
	jobs := jobmgr.NewManager(func(msg string) {
		log.Printf("[DEBUG] Job %s", msg)
	})
	b := &Bot{cfg: cfg, handler: handler, ctx: context.Background(), jobs: jobs}
	if cfg.MentionPrefix {
		handler.Prefix = cmd.WhenMentionedOr(b.SelfID, handler.Prefix)
	}
	return b
}

// SelfID is the bot's user ID once the gateway reported ready, "" before.
func (b *Bot) SelfID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selfID
}

// Run connects to Discord and handles messages until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.ctx = ctx

	// the responder's limiter handles 429s
	dg.ShouldRetryOnRateLimit = false
	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	b.handler.Responder = NewResponder(dg, b.cfg.ReplyMaxAttempts)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	err = b.jobs.StartAsync(ctx, "cooldown-cleaner", func(ctx context.Context) error {
		cmd.RunCooldownCleaner(ctx, b.handler.Commands, b.cfg.CooldownSweepInterval)
		return nil
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	b.jobs.StopAll()
	b.jobs.Wait()
	return nil
}

// configureIntents asks for message content and member data, nothing else.
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentGuildMembers
}

// onReady is called when the bot is ready
func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.mu.Lock()
	b.selfID = r.User.ID
	b.mu.Unlock()

	log.Printf("[INFO] ✅ Discord bot %v is running in %d guilds.", r.User.Username, len(r.Guilds))
}

// onMessageCreate is called when a message is created
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == b.SelfID() {
		return
	}
	data := &MessageData{Session: s, Event: m}
	// errors were already reported through the handler's events
	_ = b.handler.ProcessMessage(b.ctx, toMessage(m), data)
}

func toMessage(m *discordgo.MessageCreate) cmd.Message {
	return cmd.Message{
		ID:          m.ID,
		Content:     m.Content,
		AuthorID:    m.Author.ID,
		AuthorName:  m.Author.DisplayName(),
		AuthorIsBot: m.Author.Bot,
		ChannelID:   m.ChannelID,
		GuildID:     m.GuildID,
	}
}
