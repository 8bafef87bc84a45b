package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// MemberSource looks up guild members.
type MemberSource interface {
	Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	SearchMembers(ctx context.Context, guildID, query string, limit int) ([]*discordgo.Member, error)
}

// PermissionSource reports what a user may do in a channel.
type PermissionSource interface {
	Permissions(ctx context.Context, userID, channelID string) (int64, error)
	SelfID() string
}

// MessageData is the payload attached to every cmd.Context created from a
// gateway message.
type MessageData struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
}

// Latency is the last heartbeat round trip.
func (d *MessageData) Latency() time.Duration {
	return d.Session.HeartbeatLatency()
}

// Member returns a member from the state cache, falling back to the API.
func (d *MessageData) Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := d.Session.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return d.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
}

// SearchMembers finds members whose username or nickname starts with query.
func (d *MessageData) SearchMembers(ctx context.Context, guildID, query string, limit int) ([]*discordgo.Member, error) {
	return d.Session.GuildMembersSearch(guildID, query, limit, discordgo.WithContext(ctx))
}

// Permissions computes the channel permissions of userID.
func (d *MessageData) Permissions(ctx context.Context, userID, channelID string) (int64, error) {
	return d.Session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
}

// SelfID is the bot's own user ID.
func (d *MessageData) SelfID() string {
	if d.Session.State == nil || d.Session.State.User == nil {
		return ""
	}
	return d.Session.State.User.ID
}
