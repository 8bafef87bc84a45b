// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/vexilux/internal/commands"
	"github.com/keshon/vexilux/internal/config"
	"github.com/keshon/vexilux/internal/discord"
	"github.com/keshon/vexilux/internal/logging"
	"github.com/keshon/vexilux/internal/middleware"
	"github.com/keshon/vexilux/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[ERR] ", err)
	}

	closer := logging.Setup(logging.Options{
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Debug:      cfg.LogDebug,
	})
	defer closer.Close()

	log.Printf("[INFO] Starting %v bot...", version.AppName)
	if err := cfg.RequireToken(); err != nil {
		log.Fatal("[ERR] ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := commands.NewRegistry(cfg)
	if err := commands.Register(reg, middleware.Default(cfg.CommandTimeout), discord.Whois, discord.Perms); err != nil {
		log.Fatal("[ERR] ", err)
	}
	bot := discord.New(cfg, commands.NewHandler(cfg, reg))

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
