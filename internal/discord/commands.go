package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/vexilux/internal/commands"
	"github.com/keshon/vexilux/pkg/cmd"
)

const dateLayout = "2 Jan 2006"

// Whois builds the whois command: who a member is, defaulting to the author.
func Whois(shared ...cmd.Option) (*cmd.Command, string, error) {
	c, err := cmd.New("whois", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		m, err := memberArg(ctx, c, inv)
		if err != nil {
			return nil, err
		}
		return m, c.Reply(ctx, describeMember(m))
	}, append([]cmd.Option{
		cmd.WithAliases("userinfo"),
		cmd.WithDescription("Show who a member is"),
		cmd.WithArgs(cmd.Optional("member", Member(), nil)),
		cmd.WithChecks(cmd.GuildOnly()),
	}, shared...)...)
	return c, commands.CategoryInformation, err
}

// Perms builds the perms command, listing a member's permissions in the
// current channel.
func Perms(shared ...cmd.Option) (*cmd.Command, string, error) {
	c, err := cmd.New("perms", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		m, err := memberArg(ctx, c, inv)
		if err != nil {
			return nil, err
		}
		src, ok := c.Data.(PermissionSource)
		if !ok {
			return nil, ErrNoPermissionSource
		}
		perms, err := src.Permissions(ctx, m.User.ID, c.Message.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("fetch permissions: %w", err)
		}

		names := PermissionList(perms)
		msg := fmt.Sprintf("🔑 **%s** has no permissions here.", m.DisplayName())
		if len(names) > 0 {
			msg = fmt.Sprintf("🔑 **%s** can: %s", m.DisplayName(), strings.Join(names, ", "))
		}
		return perms, c.Reply(ctx, msg)
	}, append([]cmd.Option{
		cmd.WithDescription("List a member's permissions in this channel"),
		cmd.WithArgs(cmd.Optional("member", Member(), nil)),
		cmd.WithChecks(cmd.GuildOnly(), HasPermissions(discordgo.PermissionManageRoles)),
	}, shared...)...)
	return c, commands.CategoryModeration, err
}

func memberArg(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (*discordgo.Member, error) {
	if m, ok := cmd.ArgAs[*discordgo.Member](inv, "member"); ok && m != nil {
		return m, nil
	}
	src, ok := c.Data.(MemberSource)
	if !ok {
		return nil, ErrNotInGuild
	}
	m, err := src.Member(ctx, c.Message.GuildID, c.Message.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMemberNotFound, err)
	}
	return m, nil
}

func describeMember(m *discordgo.Member) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 **%s** (`%s`, `%s`)", m.DisplayName(), m.User.Username, m.User.ID)
	if m.User.Bot {
		sb.WriteString(" 🤖")
	}
	if created, err := discordgo.SnowflakeTimestamp(m.User.ID); err == nil {
		fmt.Fprintf(&sb, "\nAccount created: %s", created.UTC().Format(dateLayout))
	}
	if !m.JoinedAt.IsZero() {
		fmt.Fprintf(&sb, "\nJoined: %s", m.JoinedAt.UTC().Format(dateLayout))
	}
	if len(m.Roles) > 0 {
		roles := make([]string, len(m.Roles))
		for i, id := range m.Roles {
			roles[i] = "<@&" + id + ">"
		}
		fmt.Fprintf(&sb, "\nRoles: %s", strings.Join(roles, ", "))
	}
	return sb.String()
}
