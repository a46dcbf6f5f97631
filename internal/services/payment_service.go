package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/metrics"
	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrGatewayUnavailable = errors.New("payment gateway is not configured")
	ErrPaymentFailed      = errors.New("payment failed")
)

// Subscription price table, Rial. Keyed by plan then period in months.
var planPrices = map[string]map[int]int64{
	models.PlanPro: {
		1:  3900000,
		3:  9900000,
		12: 29900000,
	},
	models.PlanUltimate: {
		1:  5900000,
		3:  14900000,
		12: 44900000,
	},
}

func PlanPrice(plan string, periodMonths int) (int64, bool) {
	periods, ok := planPrices[plan]
	if !ok {
		return 0, false
	}
	price, ok := periods[periodMonths]
	return price, ok
}

type purchaseStore interface {
	Create(ctx context.Context, input repository.CreatePurchaseInput) (*models.UserPurchase, error)
	SetAuthority(ctx context.Context, purchaseID int64, authority string) (*models.UserPurchase, error)
	GetByAuthority(ctx context.Context, authority string) (*models.UserPurchase, error)
	UpdateStatusIfCurrent(ctx context.Context, purchaseID int64, currentStatus, nextStatus string) (*models.UserPurchase, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.UserPurchase, error)
}

type subscriptionApplier interface {
	ApplySubscription(ctx context.Context, userID int64, plan string, start, end time.Time) (*models.UserProfile, error)
}

type PaymentService struct {
	purchaseRepo purchaseStore
	profileRepo  subscriptionApplier
	gateway      PaymentGateway
	callbackURL  string
	now          func() time.Time
}

func NewPaymentService(
	purchaseRepo purchaseStore,
	profileRepo subscriptionApplier,
	gateway PaymentGateway,
	callbackURL string,
) *PaymentService {
	return &PaymentService{
		purchaseRepo: purchaseRepo,
		profileRepo:  profileRepo,
		gateway:      gateway,
		callbackURL:  callbackURL,
		now:          time.Now,
	}
}

type StartSubscriptionInput struct {
	Plan         string
	PeriodMonths int
}

type PaymentRedirect struct {
	Purchase    *models.UserPurchase `json:"purchase"`
	StartPayURL string               `json:"start_pay_url"`
}

// StartSubscription records a pending purchase, asks the gateway for an
// authority token and hands back the hosted StartPay URL to redirect to.
func (s *PaymentService) StartSubscription(ctx context.Context, userID int64, input StartSubscriptionInput) (*PaymentRedirect, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	if userID <= 0 {
		return nil, ErrInvalidInput
	}

	amount, ok := PlanPrice(input.Plan, input.PeriodMonths)
	if !ok {
		return nil, ErrInvalidInput
	}

	expiresAt := s.now().AddDate(0, input.PeriodMonths, 0)
	planID := input.Plan
	purchase, err := s.purchaseRepo.Create(ctx, repository.CreatePurchaseInput{
		UserID:    userID,
		RefCode:   uuid.NewString(),
		PlanID:    &planID,
		Amount:    amount,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Lift Legends %s subscription, %d month(s)", input.Plan, input.PeriodMonths)
	authority, startPayURL, err := s.gateway.RequestPayment(ctx, amount, description, s.callbackURL)
	if err != nil {
		return nil, err
	}
	metrics.PaymentRequests.Inc()

	purchase, err = s.purchaseRepo.SetAuthority(ctx, purchase.ID, authority)
	if err != nil {
		return nil, err
	}

	return &PaymentRedirect{Purchase: purchase, StartPayURL: startPayURL}, nil
}

type VerifyResult struct {
	Purchase *models.UserPurchase `json:"purchase"`
	RefID    string               `json:"ref_id,omitempty"`
}

// VerifyCallback handles the gateway redirect. The pending-to-paid transition
// is a compare-and-set, so a replayed callback (or two racing ones) applies
// the subscription once; the loser just reads the already-paid row.
func (s *PaymentService) VerifyCallback(ctx context.Context, authority, status string) (*VerifyResult, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	if strings.TrimSpace(authority) == "" {
		return nil, ErrInvalidInput
	}

	purchase, err := s.purchaseRepo.GetByAuthority(ctx, authority)
	if err != nil {
		return nil, err
	}

	if purchase.PaymentStatus == models.PaymentPaid {
		return &VerifyResult{Purchase: purchase}, nil
	}

	if status != "OK" {
		canceled, err := s.purchaseRepo.UpdateStatusIfCurrent(ctx, purchase.ID, models.PaymentPending, models.PaymentCanceled)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if canceled != nil {
			purchase = canceled
		}
		metrics.PaymentVerifications.WithLabelValues("canceled").Inc()
		return &VerifyResult{Purchase: purchase}, ErrPaymentFailed
	}

	refID, _, err := s.gateway.VerifyPayment(ctx, authority, purchase.Amount)
	if err != nil {
		if failed, markErr := s.purchaseRepo.UpdateStatusIfCurrent(ctx, purchase.ID, models.PaymentPending, models.PaymentFailed); markErr == nil {
			purchase = failed
		}
		metrics.PaymentVerifications.WithLabelValues("failed").Inc()
		return &VerifyResult{Purchase: purchase}, errors.Join(ErrPaymentFailed, err)
	}

	paid, err := s.purchaseRepo.UpdateStatusIfCurrent(ctx, purchase.ID, models.PaymentPending, models.PaymentPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race; someone else already applied it
			purchase, err = s.purchaseRepo.GetByAuthority(ctx, authority)
			if err != nil {
				return nil, err
			}
			return &VerifyResult{Purchase: purchase, RefID: refID}, nil
		}
		return nil, err
	}

	if paid.PlanID != nil && paid.ExpiresAt != nil {
		if _, err := s.profileRepo.ApplySubscription(ctx, paid.UserID, *paid.PlanID, s.now(), *paid.ExpiresAt); err != nil {
			return nil, err
		}
	}

	metrics.PaymentVerifications.WithLabelValues("paid").Inc()
	return &VerifyResult{Purchase: paid, RefID: refID}, nil
}

func (s *PaymentService) ListPurchases(ctx context.Context, userID int64) ([]models.UserPurchase, error) {
	return s.purchaseRepo.ListByUserID(ctx, userID)
}

type DeepLinkInput struct {
	PlanID        string
	Amount        int64
	PeriodMonths  int
	PaymentMethod string
}

// BuildDeepLink produces the url-encoded JSON payload the mobile app consumes
// to resume a payment started on the web.
func BuildDeepLink(input DeepLinkInput, at time.Time) (string, error) {
	if input.PlanID == "" || input.Amount <= 0 || input.PeriodMonths <= 0 {
		return "", ErrInvalidInput
	}

	payload := map[string]any{
		"plan_id":        input.PlanID,
		"amount":         input.Amount,
		"period":         input.PeriodMonths,
		"payment_method": input.PaymentMethod,
		"timestamp":      at.Unix(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return "liftlegends://payment?data=" + url.QueryEscape(string(data)), nil
}
