package commands

import (
	"github.com/keshon/vexilux/internal/config"
	"github.com/keshon/vexilux/pkg/argsplit"
	"github.com/keshon/vexilux/pkg/cmd"
)

// NewRegistry returns an empty registry honouring cfg's case setting.
func NewRegistry(cfg *config.Config) *cmd.Registry {
	if cfg.CaseInsensitive {
		return cmd.NewRegistry(cmd.CaseInsensitive())
	}
	return cmd.NewRegistry()
}

// NewHandler builds the message handler for reg as cfg describes it. Errors
// are reported back to users through ReplyErrors.
func NewHandler(cfg *config.Config, reg *cmd.Registry) *cmd.Handler {
	h := cmd.NewHandler(reg)
	h.Prefix = cmd.StaticPrefix(cfg.Prefixes...)
	if cfg.QuotedArgs {
		h.Splitter = argsplit.Quoted{}
	}
	h.Owners = cfg.OwnerIDs
	h.IgnoreBots = cfg.IgnoreBots
	h.Events.Subscribe(ReplyErrors)
	return h
}
