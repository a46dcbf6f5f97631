package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Zarinpal v4 REST gateway. Code 100 means success; 101 on verify means the
// authority was already verified once before.
const (
	zarinpalCodeOK              = 100
	zarinpalCodeAlreadyVerified = 101
)

type PaymentGateway interface {
	RequestPayment(ctx context.Context, amount int64, description, callbackURL string) (authority string, startPayURL string, err error)
	VerifyPayment(ctx context.Context, authority string, amount int64) (refID string, alreadyVerified bool, err error)
}

type ZarinpalGateway struct {
	merchantID string
	baseURL    string
	httpClient *http.Client
}

func NewZarinpalGateway(merchantID string, sandbox bool) *ZarinpalGateway {
	baseURL := "https://payment.zarinpal.com"
	if sandbox {
		baseURL = "https://sandbox.zarinpal.com"
	}
	return &ZarinpalGateway{
		merchantID: merchantID,
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

type zarinpalRequestBody struct {
	MerchantID  string `json:"merchant_id"`
	Amount      int64  `json:"amount"`
	CallbackURL string `json:"callback_url"`
	Description string `json:"description"`
}

type zarinpalVerifyBody struct {
	MerchantID string `json:"merchant_id"`
	Amount     int64  `json:"amount"`
	Authority  string `json:"authority"`
}

type zarinpalResponse struct {
	Data struct {
		Code      int    `json:"code"`
		Message   string `json:"message"`
		Authority string `json:"authority"`
		RefID     int64  `json:"ref_id"`
	} `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

func (g *ZarinpalGateway) RequestPayment(ctx context.Context, amount int64, description, callbackURL string) (string, string, error) {
	body := zarinpalRequestBody{
		MerchantID:  g.merchantID,
		Amount:      amount,
		CallbackURL: callbackURL,
		Description: description,
	}

	var response zarinpalResponse
	if err := g.post(ctx, "/pg/v4/payment/request.json", body, &response); err != nil {
		return "", "", err
	}
	if response.Data.Code != zarinpalCodeOK || response.Data.Authority == "" {
		return "", "", fmt.Errorf("payment request rejected: code %d: %s", response.Data.Code, response.Data.Message)
	}

	startPayURL := fmt.Sprintf("%s/pg/StartPay/%s", g.baseURL, response.Data.Authority)
	return response.Data.Authority, startPayURL, nil
}

func (g *ZarinpalGateway) VerifyPayment(ctx context.Context, authority string, amount int64) (string, bool, error) {
	body := zarinpalVerifyBody{
		MerchantID: g.merchantID,
		Amount:     amount,
		Authority:  authority,
	}

	var response zarinpalResponse
	if err := g.post(ctx, "/pg/v4/payment/verify.json", body, &response); err != nil {
		return "", false, err
	}

	switch response.Data.Code {
	case zarinpalCodeOK:
		return fmt.Sprintf("%d", response.Data.RefID), false, nil
	case zarinpalCodeAlreadyVerified:
		return fmt.Sprintf("%d", response.Data.RefID), true, nil
	default:
		return "", false, fmt.Errorf("payment verify rejected: code %d: %s", response.Data.Code, response.Data.Message)
	}
}

func (g *ZarinpalGateway) post(ctx context.Context, path string, body any, out *zarinpalResponse) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal gateway payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("gateway: status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
