package discord

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/vexilux/pkg/cmd"
	"github.com/keshon/vexilux/pkg/retrylimit"
)

// MaxMessageLength is Discord's limit for message content, in characters.
const MaxMessageLength = 2000

type sendFunc func(ctx context.Context, channelID string, msg *discordgo.MessageSend) error

// Responder sends replies through the REST API, pacing them with an adaptive
// rate limit and retrying transient failures.
type Responder struct {
	send    sendFunc
	limiter *retrylimit.Limiter
	policy  retrylimit.Policy
}

// NewResponder returns a Responder for s. attempts bounds the tries per chunk.
func NewResponder(s *discordgo.Session, attempts int) *Responder {
	policy := retrylimit.DefaultPolicy()
	policy.Attempts = attempts
	return &Responder{
		send: func(ctx context.Context, channelID string, msg *discordgo.MessageSend) error {
			_, err := s.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
			return classify(err)
		},
		limiter: retrylimit.NewLimiter(retrylimit.DefaultLimits()),
		policy:  policy,
	}
}

// Reply posts content in the invocation's channel, split into as many
// messages as needed. The first one references the command message. Mentions
// in the content never ping anyone.
func (r *Responder) Reply(ctx context.Context, c *cmd.Context, content string) error {
	for i, part := range chunk(content, MaxMessageLength) {
		msg := &discordgo.MessageSend{
			Content:         part,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		}
		if i == 0 && c.Message.ID != "" {
			fail := false
			msg.Reference = &discordgo.MessageReference{
				MessageID:       c.Message.ID,
				ChannelID:       c.Message.ChannelID,
				GuildID:         c.Message.GuildID,
				FailIfNotExists: &fail,
			}
		}
		err := retrylimit.Do(ctx, r.limiter, r.policy, func(ctx context.Context) error {
			return r.send(ctx, c.Message.ChannelID, msg)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// chunk splits s into pieces of at most limit runes, preferring to break
// after a newline.
func chunk(s string, limit int) []string {
	s = strings.TrimSpace(s)
	var out []string
	for s != "" {
		if utf8.RuneCountInString(s) <= limit {
			out = append(out, s)
			break
		}
		cut := byteOffset(s, limit)
		if nl := strings.LastIndexByte(s[:cut], '\n'); nl > 0 {
			cut = nl + 1
		}
		out = append(out, strings.TrimRight(s[:cut], "\n"))
		s = strings.TrimLeft(s[cut:], "\n")
	}
	return out
}

// byteOffset returns the byte index just past the first n runes of s.
func byteOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

// restError exposes the HTTP status of a discordgo failure to retrylimit.
type restError struct {
	code       int
	retryAfter time.Duration
	err        error
}

func (e *restError) Error() string             { return e.err.Error() }
func (e *restError) Unwrap() error             { return e.err }
func (e *restError) StatusCode() int           { return e.code }
func (e *restError) RetryAfter() time.Duration { return e.retryAfter }

func classify(err error) error {
	if err == nil {
		return nil
	}
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		re := &restError{code: http.StatusTooManyRequests, err: err}
		if rl.RateLimit != nil && rl.TooManyRequests != nil {
			re.retryAfter = rl.RetryAfter
		}
		return re
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return &restError{code: rest.Response.StatusCode, err: err}
	}
	return err
}
