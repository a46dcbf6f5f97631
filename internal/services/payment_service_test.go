package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/jackc/pgx/v5"
)

type stubPurchaseStore struct {
	purchase *models.UserPurchase
	applied  []string
}

func (s *stubPurchaseStore) Create(_ context.Context, input repository.CreatePurchaseInput) (*models.UserPurchase, error) {
	s.purchase = &models.UserPurchase{
		ID:            1,
		UserID:        input.UserID,
		RefCode:       input.RefCode,
		PlanID:        input.PlanID,
		ProgramID:     input.ProgramID,
		Amount:        input.Amount,
		PaymentStatus: models.PaymentPending,
		ExpiresAt:     input.ExpiresAt,
	}
	return s.purchase, nil
}

func (s *stubPurchaseStore) SetAuthority(_ context.Context, _ int64, authority string) (*models.UserPurchase, error) {
	s.purchase.Authority = &authority
	return s.purchase, nil
}

func (s *stubPurchaseStore) GetByAuthority(_ context.Context, authority string) (*models.UserPurchase, error) {
	if s.purchase == nil || s.purchase.Authority == nil || *s.purchase.Authority != authority {
		return nil, pgx.ErrNoRows
	}
	return s.purchase, nil
}

func (s *stubPurchaseStore) UpdateStatusIfCurrent(_ context.Context, _ int64, currentStatus, nextStatus string) (*models.UserPurchase, error) {
	if s.purchase.PaymentStatus != currentStatus {
		return nil, pgx.ErrNoRows
	}
	s.purchase.PaymentStatus = nextStatus
	return s.purchase, nil
}

func (s *stubPurchaseStore) ListByUserID(_ context.Context, _ int64) ([]models.UserPurchase, error) {
	if s.purchase == nil {
		return nil, nil
	}
	return []models.UserPurchase{*s.purchase}, nil
}

type stubApplier struct {
	calls int
	plan  string
}

func (s *stubApplier) ApplySubscription(_ context.Context, _ int64, plan string, _, _ time.Time) (*models.UserProfile, error) {
	s.calls++
	s.plan = plan
	return &models.UserProfile{SubscriptionPlan: plan}, nil
}

type stubGateway struct {
	authority string
	refID     string
	verifyErr error
}

func (s *stubGateway) RequestPayment(_ context.Context, _ int64, _, _ string) (string, string, error) {
	return s.authority, "https://www.zarinpal.com/pg/StartPay/" + s.authority, nil
}

func (s *stubGateway) VerifyPayment(_ context.Context, _ string, _ int64) (string, bool, error) {
	if s.verifyErr != nil {
		return "", false, s.verifyErr
	}
	return s.refID, false, nil
}

func newPaymentFixture(t *testing.T) (*PaymentService, *stubPurchaseStore, *stubApplier) {
	t.Helper()
	store := &stubPurchaseStore{}
	applier := &stubApplier{}
	gateway := &stubGateway{authority: "A0001", refID: "REF123"}
	service := NewPaymentService(store, applier, gateway, "https://liftlegends.ir/api/payment/verify")
	return service, store, applier
}

func TestPlanPriceTable(t *testing.T) {
	cases := []struct {
		plan   string
		months int
		want   int64
	}{
		{models.PlanPro, 1, 3900000},
		{models.PlanPro, 3, 9900000},
		{models.PlanPro, 12, 29900000},
		{models.PlanUltimate, 1, 5900000},
		{models.PlanUltimate, 3, 14900000},
		{models.PlanUltimate, 12, 44900000},
	}
	for _, tc := range cases {
		got, ok := PlanPrice(tc.plan, tc.months)
		if !ok || got != tc.want {
			t.Fatalf("PlanPrice(%q, %d) = %d, %v; want %d", tc.plan, tc.months, got, ok, tc.want)
		}
	}

	if _, ok := PlanPrice(models.PlanBasic, 1); ok {
		t.Fatal("basic plan must not be purchasable")
	}
	if _, ok := PlanPrice(models.PlanPro, 6); ok {
		t.Fatal("unknown period must be rejected")
	}
}

func TestStartSubscriptionCreatesPendingPurchase(t *testing.T) {
	service, store, _ := newPaymentFixture(t)

	redirect, err := service.StartSubscription(context.Background(), 7, StartSubscriptionInput{
		Plan:         models.PlanPro,
		PeriodMonths: 3,
	})
	if err != nil {
		t.Fatalf("StartSubscription: %v", err)
	}

	if redirect.Purchase.Amount != 9900000 {
		t.Fatalf("expected amount 9900000, got %d", redirect.Purchase.Amount)
	}
	if redirect.Purchase.PaymentStatus != models.PaymentPending {
		t.Fatalf("expected pending status, got %q", redirect.Purchase.PaymentStatus)
	}
	if store.purchase.RefCode == "" {
		t.Fatal("expected a generated ref code")
	}
	if !strings.HasPrefix(redirect.StartPayURL, "https://www.zarinpal.com/pg/StartPay/") {
		t.Fatalf("unexpected StartPay URL %q", redirect.StartPayURL)
	}
}

func TestStartSubscriptionRejectsUnknownPlan(t *testing.T) {
	service, _, _ := newPaymentFixture(t)

	_, err := service.StartSubscription(context.Background(), 7, StartSubscriptionInput{
		Plan:         "platinum",
		PeriodMonths: 1,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStartSubscriptionWithoutGateway(t *testing.T) {
	service := NewPaymentService(&stubPurchaseStore{}, &stubApplier{}, nil, "")

	_, err := service.StartSubscription(context.Background(), 7, StartSubscriptionInput{
		Plan:         models.PlanPro,
		PeriodMonths: 1,
	})
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestVerifyCallbackAppliesSubscriptionOnce(t *testing.T) {
	service, store, applier := newPaymentFixture(t)

	if _, err := service.StartSubscription(context.Background(), 7, StartSubscriptionInput{
		Plan:         models.PlanUltimate,
		PeriodMonths: 1,
	}); err != nil {
		t.Fatalf("StartSubscription: %v", err)
	}

	result, err := service.VerifyCallback(context.Background(), "A0001", "OK")
	if err != nil {
		t.Fatalf("VerifyCallback: %v", err)
	}
	if result.Purchase.PaymentStatus != models.PaymentPaid {
		t.Fatalf("expected paid status, got %q", result.Purchase.PaymentStatus)
	}
	if result.RefID != "REF123" {
		t.Fatalf("expected ref ID REF123, got %q", result.RefID)
	}
	if applier.calls != 1 || applier.plan != models.PlanUltimate {
		t.Fatalf("expected one ultimate subscription applied, got %d calls for %q", applier.calls, applier.plan)
	}

	// Replayed callback: the row is already paid, nothing is applied twice.
	replay, err := service.VerifyCallback(context.Background(), "A0001", "OK")
	if err != nil {
		t.Fatalf("replayed VerifyCallback: %v", err)
	}
	if replay.Purchase.PaymentStatus != models.PaymentPaid {
		t.Fatalf("expected paid status on replay, got %q", replay.Purchase.PaymentStatus)
	}
	if applier.calls != 1 {
		t.Fatalf("replay applied the subscription again: %d calls", applier.calls)
	}
	if store.purchase.PaymentStatus != models.PaymentPaid {
		t.Fatalf("stored status changed on replay: %q", store.purchase.PaymentStatus)
	}
}

func TestVerifyCallbackCancelsOnUserAbort(t *testing.T) {
	service, store, applier := newPaymentFixture(t)

	if _, err := service.StartSubscription(context.Background(), 7, StartSubscriptionInput{
		Plan:         models.PlanPro,
		PeriodMonths: 1,
	}); err != nil {
		t.Fatalf("StartSubscription: %v", err)
	}

	result, err := service.VerifyCallback(context.Background(), "A0001", "NOK")
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
	if result.Purchase.PaymentStatus != models.PaymentCanceled {
		t.Fatalf("expected canceled status, got %q", result.Purchase.PaymentStatus)
	}
	if applier.calls != 0 {
		t.Fatal("canceled payment must not apply a subscription")
	}
	if store.purchase.PaymentStatus != models.PaymentCanceled {
		t.Fatalf("stored status is %q", store.purchase.PaymentStatus)
	}
}

func TestVerifyCallbackMarksFailedWhenGatewayRejects(t *testing.T) {
	store := &stubPurchaseStore{}
	applier := &stubApplier{}
	gateway := &stubGateway{authority: "A0002", verifyErr: errors.New("code -53")}
	service := NewPaymentService(store, applier, gateway, "https://liftlegends.ir/api/payment/verify")

	if _, err := service.StartSubscription(context.Background(), 7, StartSubscriptionInput{
		Plan:         models.PlanPro,
		PeriodMonths: 1,
	}); err != nil {
		t.Fatalf("StartSubscription: %v", err)
	}

	result, err := service.VerifyCallback(context.Background(), "A0002", "OK")
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
	if result.Purchase.PaymentStatus != models.PaymentFailed {
		t.Fatalf("expected failed status, got %q", result.Purchase.PaymentStatus)
	}
	if applier.calls != 0 {
		t.Fatal("failed payment must not apply a subscription")
	}
}

func TestVerifyCallbackUnknownAuthority(t *testing.T) {
	service, _, _ := newPaymentFixture(t)

	if _, err := service.VerifyCallback(context.Background(), "MISSING", "OK"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestBuildDeepLink(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	link, err := BuildDeepLink(DeepLinkInput{
		PlanID:        models.PlanPro,
		Amount:        3900000,
		PeriodMonths:  1,
		PaymentMethod: "zarinpal",
	}, at)
	if err != nil {
		t.Fatalf("BuildDeepLink: %v", err)
	}

	if !strings.HasPrefix(link, "liftlegends://payment?data=") {
		t.Fatalf("unexpected scheme in %q", link)
	}

	encoded := strings.TrimPrefix(link, "liftlegends://payment?data=")
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		t.Fatalf("payload is not url-encoded: %v", err)
	}
	for _, fragment := range []string{`"plan_id":"pro"`, `"amount":3900000`, `"period":1`, `"payment_method":"zarinpal"`} {
		if !strings.Contains(decoded, fragment) {
			t.Fatalf("payload %q missing %q", decoded, fragment)
		}
	}
}

func TestBuildDeepLinkRejectsInvalidInput(t *testing.T) {
	if _, err := BuildDeepLink(DeepLinkInput{Amount: 100, PeriodMonths: 1}, time.Now()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing plan, got %v", err)
	}
	if _, err := BuildDeepLink(DeepLinkInput{PlanID: "pro", PeriodMonths: 1}, time.Now()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero amount, got %v", err)
	}
}
