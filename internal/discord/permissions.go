package discord

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/vexilux/pkg/cmd"
)

// ErrNoPermissionSource is wrapped in a check failure when the invocation did
// not come from Discord.
var ErrNoPermissionSource = errors.New("permissions are unknown outside Discord")

// PermissionNames labels the permission bits shown to users.
var PermissionNames = map[int64]string{
	discordgo.PermissionCreateInstantInvite: "Create Instant Invite",
	discordgo.PermissionKickMembers:         "Kick Members",
	discordgo.PermissionBanMembers:          "Ban Members",
	discordgo.PermissionAdministrator:       "Administrator",
	discordgo.PermissionManageChannels:      "Manage Channels",
	discordgo.PermissionManageGuild:         "Manage Server",
	discordgo.PermissionAddReactions:        "Add Reactions",
	discordgo.PermissionViewAuditLogs:       "View Audit Logs",
	discordgo.PermissionViewChannel:         "View Channel",
	discordgo.PermissionSendMessages:        "Send Messages",
	discordgo.PermissionManageMessages:      "Manage Messages",
	discordgo.PermissionEmbedLinks:          "Embed Links",
	discordgo.PermissionAttachFiles:         "Attach Files",
	discordgo.PermissionReadMessageHistory:  "Read Message History",
	discordgo.PermissionMentionEveryone:     "Mention Everyone",
	discordgo.PermissionManageThreads:       "Manage Threads",
	discordgo.PermissionChangeNickname:      "Change Nickname",
	discordgo.PermissionManageNicknames:     "Manage Nicknames",
	discordgo.PermissionManageRoles:         "Manage Roles",
	discordgo.PermissionManageWebhooks:      "Manage Webhooks",
	discordgo.PermissionModerateMembers:     "Moderate Members",
}

// PermissionList names every bit set in perms, sorted.
func PermissionList(perms int64) []string {
	var names []string
	for p := uint64(perms); p != 0; p &= p - 1 {
		bit := int64(1) << bits.TrailingZeros64(p)
		name, ok := PermissionNames[bit]
		if !ok {
			name = fmt.Sprintf("0x%x", bit)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPermissions requires the author to hold every permission in perms in
// the invoking channel. Administrators always pass. Direct messages pass.
func HasPermissions(perms int64) cmd.Check {
	return func(ctx context.Context, c *cmd.Context) error {
		return requirePermissions(ctx, c, c.Message.AuthorID, perms, "you")
	}
}

// BotHasPermissions requires the bot itself to hold perms in the invoking
// channel.
func BotHasPermissions(perms int64) cmd.Check {
	return func(ctx context.Context, c *cmd.Context) error {
		src, ok := c.Data.(PermissionSource)
		if !ok {
			return &cmd.CheckFailure{Kind: cmd.MissingPermissions, Command: c.Command, Err: ErrNoPermissionSource}
		}
		return requirePermissions(ctx, c, src.SelfID(), perms, "I")
	}
}

func requirePermissions(ctx context.Context, c *cmd.Context, userID string, perms int64, who string) error {
	if !c.InGuild() {
		return nil
	}
	src, ok := c.Data.(PermissionSource)
	if !ok {
		return &cmd.CheckFailure{Kind: cmd.MissingPermissions, Command: c.Command, Err: ErrNoPermissionSource}
	}

	have, err := src.Permissions(ctx, userID, c.Message.ChannelID)
	if err != nil {
		return &cmd.CheckFailure{Kind: cmd.MissingPermissions, Command: c.Command, Err: fmt.Errorf("fetch permissions: %w", err)}
	}
	if have&discordgo.PermissionAdministrator != 0 {
		return nil
	}
	if missing := perms &^ have; missing != 0 {
		return &cmd.CheckFailure{
			Kind:    cmd.MissingPermissions,
			Command: c.Command,
			Reason:  fmt.Sprintf("%s need %s here", who, strings.Join(PermissionList(missing), ", ")),
		}
	}
	return nil
}
