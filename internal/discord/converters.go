package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/vexilux/pkg/cmd"
	"github.com/keshon/vexilux/pkg/flags"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrNotInGuild     = errors.New("members can only be looked up in a server")
)

const memberSearchLimit = 10

// Member converts a mention, a user ID or a name into a *discordgo.Member of
// the invoking guild. Names are matched against usernames, global names and
// nicknames, exact matches first.
func Member() flags.Converter {
	return flags.Async("member", func(ctx context.Context, arg flags.WrappedArg) (any, error) {
		c, ok := arg.Context.(*cmd.Context)
		if !ok || !c.InGuild() {
			return nil, ErrNotInGuild
		}
		src, ok := c.Data.(MemberSource)
		if !ok {
			return nil, ErrNotInGuild
		}

		if id, ok := parseUserID(arg.Data); ok {
			m, err := src.Member(ctx, c.Message.GuildID, id)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, arg.Data)
			}
			return m, nil
		}

		found, err := src.SearchMembers(ctx, c.Message.GuildID, arg.Data, memberSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("search members: %w", err)
		}
		if m := bestMatch(found, arg.Data); m != nil {
			return m, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, arg.Data)
	})
}

// parseUserID accepts <@id>, <@!id> and a bare snowflake.
func parseUserID(s string) (string, bool) {
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(strings.TrimSuffix(s[2:], ">"), "!")
	}
	if len(s) < 15 || len(s) > 20 {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}

func bestMatch(members []*discordgo.Member, query string) *discordgo.Member {
	var prefixed *discordgo.Member
	for _, m := range members {
		if m == nil || m.User == nil {
			continue
		}
		for _, name := range []string{m.User.Username, m.User.GlobalName, m.Nick} {
			if name == "" {
				continue
			}
			if strings.EqualFold(name, query) {
				return m
			}
			if prefixed == nil && strings.HasPrefix(strings.ToLower(name), strings.ToLower(query)) {
				prefixed = m
			}
		}
	}
	return prefixed
}
