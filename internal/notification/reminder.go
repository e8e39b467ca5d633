package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/debt/schedule"
	"github.com/fkhayef/paylock/internal/logging"
)

// SellerLister lists sellers with outstanding debt
type SellerLister interface {
	ListSellersWithDebt(ctx context.Context) ([]*account.Account, error)
}

// Result summarises one reminder run
type Result struct {
	Checked int
	TwoDays []int64
	OneDay  []int64
	Today   []int64
}

// Reminder scans sellers with debt and notifies those whose next payment
// is due in 2, 1 or 0 days.
type Reminder struct {
	sellers  SellerLister
	notifier *Service
	log      logging.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewReminder creates a reminder job evaluating dates in loc
func NewReminder(sellers SellerLister, notifier *Service, log logging.Logger, loc *time.Location) *Reminder {
	if loc == nil {
		loc = time.UTC
	}
	return &Reminder{sellers: sellers, notifier: notifier, log: log, loc: loc, now: time.Now}
}

// Run performs one scan. A failure for one seller is logged and does not
// stop the others.
func (r *Reminder) Run(ctx context.Context) (*Result, error) {
	sellers, err := r.sellers.ListSellersWithDebt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}

	now := r.now().In(r.loc)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)
	res := &Result{Checked: len(sellers)}

	for _, s := range sellers {
		if s.Debt.NextPaymentAt == nil {
			continue
		}
		days := schedule.DaysUntil(now, *s.Debt.NextPaymentAt)
		kind := schedule.ReminderKind(days)
		if kind == "" {
			continue
		}

		if _, err := r.notifier.NotifyPaymentDue(ctx, s.ID, kind, s.Debt.InstallmentAmount, startOfDay); err != nil {
			r.log.Error(ctx, "payment reminder failed", "seller_id", s.ID, "error", err)
			continue
		}

		switch kind {
		case schedule.ReminderTwoDays:
			res.TwoDays = append(res.TwoDays, s.ID)
		case schedule.ReminderOneDay:
			res.OneDay = append(res.OneDay, s.ID)
		case schedule.ReminderToday:
			res.Today = append(res.Today, s.ID)
		}
	}

	r.log.Info(ctx, "payment reminders checked",
		"sellers", res.Checked, "two_days", len(res.TwoDays), "one_day", len(res.OneDay), "today", len(res.Today))
	return res, nil
}

// Schedule registers the job on a cron runner for spec, evaluated in the
// reminder's location. The caller starts and stops the returned runner.
func (r *Reminder) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(r.loc))
	_, err := c.AddFunc(spec, func() {
		if _, err := r.Run(ctx); err != nil {
			r.log.Error(ctx, "payment reminder run failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return c, nil
}
