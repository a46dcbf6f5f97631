package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type stubProfileStore struct {
	profile        *models.UserProfile
	downgraded     bool
	downgradeCalls int
	bulkUserIDs    []int64
	err            error
}

func (s *stubProfileStore) GetByUserID(_ context.Context, _ int64) (*models.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func (s *stubProfileStore) DowngradeIfExpired(_ context.Context, _ int64, _ time.Time) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.downgradeCalls++
	return s.downgraded, nil
}

func (s *stubProfileStore) DowngradeAllExpired(_ context.Context, _ time.Time) ([]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bulkUserIDs, nil
}

type stubNotifier struct {
	notified []int64
}

func (s *stubNotifier) NotifyDowngrade(userID int64) {
	s.notified = append(s.notified, userID)
}

func datePtr(t time.Time) *time.Time { return &t }

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name    string
		plan    string
		endDate *time.Time
		want    bool
	}{
		{"paid plan ended yesterday", models.PlanPro, datePtr(now.AddDate(0, 0, -1)), true},
		{"ultimate ended last month", models.PlanUltimate, datePtr(now.AddDate(0, -1, 0)), true},
		{"end date is today", models.PlanPro, datePtr(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)), false},
		{"end date later today", models.PlanPro, datePtr(now.Add(time.Hour)), false},
		{"end date in the future", models.PlanUltimate, datePtr(now.AddDate(0, 1, 0)), false},
		{"just before midnight yesterday", models.PlanPro, datePtr(time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC)), true},
		{"nil end date never expires", models.PlanPro, nil, false},
		{"basic plan never expires", models.PlanBasic, datePtr(now.AddDate(0, 0, -30)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsExpired(tc.plan, tc.endDate, now); got != tc.want {
				t.Fatalf("IsExpired(%q, %v) = %v, want %v", tc.plan, tc.endDate, got, tc.want)
			}
		})
	}
}

func TestReconcileNotifiesOnDowngrade(t *testing.T) {
	store := &stubProfileStore{downgraded: true}
	notifier := &stubNotifier{}
	service := NewSubscriptionService(store, notifier)

	downgraded, err := service.Reconcile(context.Background(), 42)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !downgraded {
		t.Fatal("expected a downgrade")
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != 42 {
		t.Fatalf("expected user 42 notified once, got %v", notifier.notified)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := &stubProfileStore{downgraded: true}
	service := NewSubscriptionService(store, nil)

	if _, err := service.Reconcile(context.Background(), 7); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}

	// The conditional update no longer matches once the plan is basic.
	store.downgraded = false
	downgraded, err := service.Reconcile(context.Background(), 7)
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if downgraded {
		t.Fatal("second pass must not downgrade again")
	}
	if store.downgradeCalls != 2 {
		t.Fatalf("expected 2 conditional updates, got %d", store.downgradeCalls)
	}
}

func TestGetProfileReconcilesBeforeReading(t *testing.T) {
	store := &stubProfileStore{
		downgraded: true,
		profile: &models.UserProfile{
			UserID:           9,
			SubscriptionPlan: models.PlanBasic,
		},
	}
	service := NewSubscriptionService(store, nil)

	profile, err := service.GetProfile(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if store.downgradeCalls != 1 {
		t.Fatalf("expected reconcile before read, got %d calls", store.downgradeCalls)
	}
	if profile.SubscriptionPlan != models.PlanBasic {
		t.Fatalf("expected basic plan, got %q", profile.SubscriptionPlan)
	}
}

func TestReconcileAllNotifiesEveryDowngradedUser(t *testing.T) {
	store := &stubProfileStore{bulkUserIDs: []int64{3, 5, 8}}
	notifier := &stubNotifier{}
	service := NewSubscriptionService(store, notifier)

	userIDs, err := service.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("ReconcileAll: %v", err)
	}
	if len(userIDs) != 3 {
		t.Fatalf("expected 3 downgrades, got %d", len(userIDs))
	}
	if len(notifier.notified) != 3 {
		t.Fatalf("expected 3 notifications, got %v", notifier.notified)
	}
}

func TestReconcileAllPropagatesStoreError(t *testing.T) {
	wantErr := errors.New("connection reset")
	service := NewSubscriptionService(&stubProfileStore{err: wantErr}, nil)

	if _, err := service.ReconcileAll(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
