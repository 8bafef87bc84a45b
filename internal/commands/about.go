package commands

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/keshon/vexilux/internal/version"
	"github.com/keshon/vexilux/pkg/cmd"
)

func newAbout(shared ...cmd.Option) (*cmd.Command, error) {
	return cmd.New("about", func(ctx context.Context, c *cmd.Context, _ *cmd.Invocation) (any, error) {
		msg := buildAboutMessage(version.BuildDate, version.GoVersion)
		return msg, c.Reply(ctx, msg)
	}, options(shared, cmd.WithDescription("Shows info about the bot"))...)
}

func buildAboutMessage(built, goVersion string) string {
	buildDate := "unknown"
	if built != "" {
		if t, err := time.Parse(time.RFC3339, built); err == nil {
			buildDate = t.Format("2006-01-02")
		} else {
			buildDate = "invalid date"
		}
	}
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return fmt.Sprintf("ℹ️ **%s** - %s\nRelease: %s (Go %s)",
		version.AppName, version.AppDescription, buildDate, strings.TrimPrefix(goVersion, "go"))
}
