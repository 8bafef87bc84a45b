// cmd/cli/main.go runs messages through the command handler without Discord.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/keshon/vexilux/internal/commands"
	"github.com/keshon/vexilux/internal/config"
	"github.com/keshon/vexilux/internal/logging"
	"github.com/keshon/vexilux/internal/version"
	"github.com/keshon/vexilux/pkg/cmd"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "vexilux-cli",
		Short:        version.AppName + " offline tools",
		SilenceUsage: true,
	}
	root.AddCommand(newParseCommand(), newSignaturesCommand())
	return root
}

type parseOptions struct {
	prefixes []string
	author   string
	guild    string
	quoted   bool
	verbose  bool
}

func newParseCommand() *cobra.Command {
	opts := &parseOptions{}
	c := &cobra.Command{
		Use:   "parse [message]",
		Short: "Handle a message as if it was posted in a channel",
		Long: "Handle a message as if it was posted in a channel. Without an argument every\n" +
			"line of stdin is handled as a separate message.",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(c, opts)
			if err != nil {
				return err
			}
			h, err := newHandler(cfg, c.OutOrStdout(), opts.verbose)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return runLine(c.Context(), h, opts, strings.Join(args, " "))
			}
			return runLines(c.Context(), h, opts, c.InOrStdin())
		},
	}
	opts.bind(c.Flags())
	return c
}

func (o *parseOptions) bind(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&o.prefixes, "prefix", "p", nil, "command prefixes (default from BOT_PREFIXES)")
	fs.StringVar(&o.author, "author", "0", "author user ID")
	fs.StringVar(&o.guild, "guild", "", "guild ID; empty means a direct message")
	fs.BoolVar(&o.quoted, "quoted", true, "split arguments like a shell")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "print handler events")
}

func newSignaturesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signatures",
		Short: "List every command with its usage line",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			reg := cmd.NewRegistry()
			if err := commands.Register(reg, nil); err != nil {
				return err
			}
			out := c.OutOrStdout()
			reg.Walk(func(command *cmd.Command) {
				if command.Hidden {
					return
				}
				fmt.Fprintf(out, "%-40s %s\n", command.Signature(), command.Description)
			})
			return nil
		},
	}
}

func loadConfig(c *cobra.Command, opts *parseOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(logging.Options{Debug: cfg.LogDebug})
	if c.Flags().Changed("prefix") {
		cfg.Prefixes = opts.prefixes
	}
	cfg.QuotedArgs = opts.quoted
	return cfg, nil
}

func newHandler(cfg *config.Config, out io.Writer, verbose bool) (*cmd.Handler, error) {
	reg := commands.NewRegistry(cfg)
	if err := commands.Register(reg, nil); err != nil {
		return nil, err
	}
	h := commands.NewHandler(cfg, reg)
	h.Responder = cmd.ResponderFunc(func(_ context.Context, _ *cmd.Context, content string) error {
		_, err := fmt.Fprintln(out, content)
		return err
	})
	if verbose {
		h.Events.Subscribe(func(_ context.Context, ev cmd.Event) {
			switch e := ev.(type) {
			case *cmd.InvocationEvent:
				log.Printf("[DEBUG] [%s] invoking %s", e.Context.ID, e.Context.Command.QualifiedName())
			case *cmd.CompletionEvent:
				log.Printf("[DEBUG] [%s] result: %v", e.Context.ID, e.Result)
			case *cmd.ErrorEvent:
				log.Printf("[DEBUG] error: %v", e.Err)
			}
		})
	}
	return h, nil
}

func runLine(ctx context.Context, h *cmd.Handler, opts *parseOptions, line string) error {
	msg := cmd.Message{
		ID:         "cli",
		Content:    line,
		AuthorID:   opts.author,
		AuthorName: "cli",
		ChannelID:  "cli",
		GuildID:    opts.guild,
	}
	return h.ProcessMessage(ctx, msg, nil)
}

// runLines handles each stdin line. Command errors were already printed by
// the handler, so only read errors stop the loop.
func runLines(ctx context.Context, h *cmd.Handler, opts *parseOptions, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		_ = runLine(ctx, h, opts, sc.Text())
	}
	return sc.Err()
}
