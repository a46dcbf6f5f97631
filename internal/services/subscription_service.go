package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/metrics"
	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type subscriptionProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	DowngradeIfExpired(ctx context.Context, userID int64, today time.Time) (bool, error)
	DowngradeAllExpired(ctx context.Context, today time.Time) ([]int64, error)
}

type DowngradeNotifier interface {
	NotifyDowngrade(userID int64)
}

type SubscriptionService struct {
	profileRepo subscriptionProfileStore
	notifier    DowngradeNotifier
	now         func() time.Time
}

func NewSubscriptionService(profileRepo subscriptionProfileStore, notifier DowngradeNotifier) *SubscriptionService {
	return &SubscriptionService{
		profileRepo: profileRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// IsExpired reports whether a subscription should be downgraded: a paid plan
// whose end date is strictly before the start of the current day. A nil end
// date never expires, and an end date equal to today is still valid.
func IsExpired(plan string, endDate *time.Time, now time.Time) bool {
	if !models.IsPaidPlan(plan) || endDate == nil {
		return false
	}
	today := StartOfDay(now)
	return endDate.Before(today)
}

func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Reconcile downgrades the user's profile when the subscription has expired
// and reports whether a downgrade happened. The expiry rule is evaluated
// inside a single conditional UPDATE, so overlapping calls (page load,
// dashboard timer, background worker) cannot double-write.
func (s *SubscriptionService) Reconcile(ctx context.Context, userID int64) (bool, error) {
	downgraded, err := s.profileRepo.DowngradeIfExpired(ctx, userID, StartOfDay(s.now()))
	if err != nil {
		return false, err
	}
	if downgraded {
		metrics.SubscriptionDowngrades.Inc()
		s.notify(userID)
	}
	return downgraded, nil
}

// GetProfile reconciles first so a dashboard read never shows a stale paid
// plan. A reconcile failure is logged and only the read proceeds; the profile
// stays stale until the next pass.
func (s *SubscriptionService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	if _, err := s.Reconcile(ctx, userID); err != nil {
		slog.Error("subscription reconcile failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// ReconcileAll is the bulk pass run by the background worker.
func (s *SubscriptionService) ReconcileAll(ctx context.Context) ([]int64, error) {
	userIDs, err := s.profileRepo.DowngradeAllExpired(ctx, StartOfDay(s.now()))
	if err != nil {
		return nil, err
	}
	for _, userID := range userIDs {
		metrics.SubscriptionDowngrades.Inc()
		s.notify(userID)
	}
	return userIDs, nil
}

func (s *SubscriptionService) notify(userID int64) {
	if s.notifier != nil {
		s.notifier.NotifyDowngrade(userID)
	}
}
