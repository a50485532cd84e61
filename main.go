package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/bot"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/config"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/database"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/dialog"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/notify"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/scheduler"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/store"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/telegram"
)

func main() {
	logger := log.New(os.Stdout, "[reminderbot] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config load failed: %v", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database init failed: %v", err)
	}
	st := store.New(db)

	client, err := telegram.New(cfg.BotToken)
	if err != nil {
		logger.Fatalf("telegram init failed: %v", err)
	}
	logger.Printf("authorized as @%s", client.Username())

	dialogs := dialog.New(st, logger, cfg.LocalTimezone, cfg.DialogTimeout)
	dispatcher := notify.New(client)
	sched := scheduler.New(st, dispatcher, logger, cfg.LocalTimezone, cfg.CheckInterval)
	reminderBot := bot.New(st, dialogs, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(); err != nil {
		logger.Fatalf("scheduler start: %v", err)
	}
	go dialogs.Run(ctx)

	logger.Println("bot is running, press Ctrl+C to stop")
	go func() {
		<-ctx.Done()
		client.StopUpdates()
	}()
	reminderBot.Run(ctx, client.Updates())

	logger.Println("shutting down...")
	sched.Stop()
}
