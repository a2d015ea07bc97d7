package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"PriceDigest/internal/collector"
	"PriceDigest/internal/logger"
	"PriceDigest/internal/model"
	"PriceDigest/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Sender delivers a notification. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler refreshes the watchlist on a cron schedule and answers bot
// commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Log       *logger.Logger
	Tickers   []string
	Days      int
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. Notifier may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, log *logger.Logger, tickers []string, days int) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Log:       log.WithField("component", "scheduler"),
		Tickers:   tickers,
		Days:      days,
		Ctx:       ctx,
	}
}

// Register adds the watchlist refresh under spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.WithField("tickers", s.Tickers).Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow refreshes the watchlist immediately.
func (s *Scheduler) RunNow() (docs []*model.MarketDocument, failed []string) {
	return s.refreshAll()
}

func (s *Scheduler) refresh() {
	s.refreshAll()
}

func (s *Scheduler) refreshAll() ([]*model.MarketDocument, []string) {
	s.Log.Infof("refreshing %d tickers", len(s.Tickers))
	var docs []*model.MarketDocument
	var failed []string
	for _, ticker := range s.Tickers {
		if s.Ctx.Err() != nil {
			break
		}
		doc, err := s.Collector.Generate(s.Ctx, ticker, s.Days)
		if err != nil {
			s.Log.WithField("ticker", ticker).
				WithField("condition", collector.Outcome(err)).
				WithError(err).Error("refresh failed")
			failed = append(failed, ticker)
			continue
		}
		docs = append(docs, doc)
	}
	if len(s.Tickers) > 0 {
		s.trySend(notifier.FormatWatchlist(docs, failed))
	}
	return docs, failed
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	// Telegram appends @botname to commands in group chats.
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/quote":
		if len(fields) < 2 {
			return "usage: /quote TICKER [DAYS]"
		}
		ticker := strings.ToUpper(fields[1])
		days := s.Days
		if len(fields) > 2 {
			if n, err := strconv.Atoi(fields[2]); err == nil && n > 0 {
				days = n
			}
		}
		doc, err := s.Collector.Generate(ctx, ticker, days)
		if err != nil {
			return notifier.FormatFailure(ticker, err)
		}
		return notifier.FormatDigest(doc)
	case "/watchlist":
		if len(s.Tickers) == 0 {
			return "watchlist is empty"
		}
		return "watchlist: " + strings.Join(s.Tickers, ", ")
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.WithError(err).Error("send notification")
	}
}
