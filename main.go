package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"zlbots/internal/bot"
	"zlbots/internal/common"
	"zlbots/internal/config"
	"zlbots/internal/serverapi"
	"zlbots/internal/tally"

	"github.com/rs/zerolog/log"
)

const usage = "usage: zlbots [notifier|counter|tally]"

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	if err := common.SetupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("Could not set up logging")
	}

	which := "notifier"
	if len(os.Args) > 1 {
		which = os.Args[1]
	}

	// Cancel on ctrl + C or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, which, cfg); err != nil {
		log.Error().Err(err).Str("bot", which).Msg("Bot stopped with an error")
		stop()
		os.Exit(1)
	}
	log.Info().Str("bot", which).Msg("Bot stopped")
}

func run(ctx context.Context, which string, cfg *config.Config) error {

	switch which {
	case "notifier":
		if err := cfg.ValidateNotifier(); err != nil {
			return err
		}
		api := serverapi.NewServerApi(cfg.ApiUrl, cfg.ApiRate)
		return bot.NewNotifier(cfg, api).Run(ctx)

	case "counter":
		if err := cfg.ValidateCounter(); err != nil {
			return err
		}
		store, err := tally.OpenLogStore(cfg.CounterLogFile)
		if err != nil {
			return err
		}
		counter, err := bot.NewCounter(counterOptions(cfg, "📊 Message Counter", cfg.CounterResetSchedule, 0), store)
		if err != nil {
			store.Close()
			return err
		}
		return counter.Run(ctx)

	case "tally":
		if err := cfg.ValidateCounter(); err != nil {
			return err
		}
		store, err := tally.OpenJSONStore(cfg.TallyFile)
		if err != nil {
			return err
		}
		counter, err := bot.NewCounter(counterOptions(cfg, "📊 Message Tally", "", 5), store)
		if err != nil {
			store.Close()
			return err
		}
		return counter.Run(ctx)

	default:
		return fmt.Errorf("unknown bot %q, %s", which, usage)
	}
}

func counterOptions(cfg *config.Config, title string, resetSchedule string, topUsers int) bot.CounterOptions {
	return bot.CounterOptions{
		Title:            title,
		Token:            cfg.Token,
		ChannelId:        cfg.CounterChannelId,
		SummaryChannelId: cfg.CounterSummaryChannelId,
		ResetSchedule:    resetSchedule,
		Location:         cfg.Location,
		TopUsers:         topUsers,
	}
}
