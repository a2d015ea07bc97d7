package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PriceDigest/internal/notifier"
	"PriceDigest/internal/scheduler"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the watchlist on a schedule",
	Long: `Regenerate every watchlist ticker on the configured cron schedule and,
when a Telegram bot is configured, post a summary and answer /quote commands.`,
	RunE: runWatch,
}

var runOnStart bool

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&runOnStart, "now", os.Getenv("RUN_ON_START") == "true", "refresh once immediately")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if a.cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, a.collector, sender, a.log, a.cfg.Schedule.Tickers, a.cfg.Schedule.Days)
	if err := sched.Register(a.cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		a.log.Info("telegram polling started")
	}

	if runOnStart {
		go sched.RunNow()
	}

	a.log.Info("watching. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received, stopping")
	cancel()
	return nil
}
