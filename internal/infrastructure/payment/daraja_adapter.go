package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DarajaAdapter implements the PaymentGateway port against the M-Pesa Daraja
// API. OAuth tokens are cached until shortly before expiry.
type DarajaAdapter struct {
	config     *DarajaConfig
	httpClient *http.Client
	logger     *zap.Logger

	tokenMu      sync.Mutex
	token        string
	tokenExpires time.Time
}

// NewDarajaAdapter creates a new Daraja adapter
func NewDarajaAdapter(config *DarajaConfig, timeout time.Duration, logger *zap.Logger) (*DarajaAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &DarajaAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// InitiateSTKPush asks Daraja to push a payment prompt to the phone
func (a *DarajaAdapter) InitiateSTKPush(ctx context.Context, req ledger.STKPushRequest) (*ledger.STKPushResponse, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	desc := req.Description
	if len(desc) > 20 { // Daraja caps TransactionDesc at 20 chars
		desc = desc[:20]
	}

	payload := stkPushPayload{
		BusinessShortCode: a.config.BusinessShortCode,
		Password:          a.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount.Round(0).IntPart(),
		PartyA:            req.PhoneNumber,
		PartyB:            a.config.BusinessShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       a.config.CallbackURL,
		AccountReference:  fmt.Sprintf("Payout_%s_%s", req.UserID, timestamp),
		TransactionDesc:   desc,
	}

	var result stkPushResult
	if err := a.post(ctx, darajaSTKPushPath, token, payload, &result); err != nil {
		return nil, err
	}
	if result.ErrorCode != "" {
		a.logger.Warn("stk push rejected",
			zap.String("error_code", result.ErrorCode),
			zap.String("error_message", result.ErrorMessage))
		return nil, fmt.Errorf("%w: %s", ledger.ErrGatewayRequestFailed, result.ErrorMessage)
	}
	if result.ResponseCode != "0" {
		return nil, fmt.Errorf("%w: %s", ledger.ErrGatewayRequestFailed, result.ResponseDescription)
	}

	return &ledger.STKPushResponse{
		MerchantRequestID: result.MerchantRequestID,
		CheckoutRequestID: result.CheckoutRequestID,
		ResponseCode:      result.ResponseCode,
		CustomerMessage:   result.CustomerMessage,
	}, nil
}

// QueryStatus polls Daraja for the state of an STK push
func (a *DarajaAdapter) QueryStatus(ctx context.Context, checkoutRequestID string) (*ledger.CallbackResult, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	payload := stkQueryPayload{
		BusinessShortCode: a.config.BusinessShortCode,
		Password:          a.password(timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var result stkQueryResult
	if err := a.post(ctx, darajaSTKQueryPath, token, payload, &result); err != nil {
		return nil, err
	}

	out := &ledger.CallbackResult{CheckoutRequestID: checkoutRequestID}
	switch {
	case result.ErrorCode != "":
		// "The transaction is being processed" arrives as an error payload
		out.Status = ledger.PaymentStatusPending
		out.FailureReason = result.ErrorMessage
	case result.ResultCode == "0":
		out.Status = ledger.PaymentStatusSucceeded
	case result.ResultCode == strconv.Itoa(resultCodeCancelled):
		out.Status = ledger.PaymentStatusCancelled
		out.FailureReason = result.ResultDesc
	default:
		out.Status = ledger.PaymentStatusFailed
		out.FailureReason = result.ResultDesc
	}
	return out, nil
}

// ParseCallback validates and parses a raw STK push callback payload
func (a *DarajaAdapter) ParseCallback(payload []byte) (*ledger.CallbackResult, error) {
	var envelope callbackEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrGatewayInvalidCallback, err)
	}

	cb := envelope.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, ledger.ErrGatewayInvalidCallback
	}

	result := &ledger.CallbackResult{CheckoutRequestID: cb.CheckoutRequestID}
	if cb.ResultCode != 0 {
		result.Status = ledger.PaymentStatusFailed
		if cb.ResultCode == resultCodeCancelled {
			result.Status = ledger.PaymentStatusCancelled
		}
		result.FailureReason = cb.ResultDesc
		return result, nil
	}

	result.Status = ledger.PaymentStatusSucceeded
	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			var amount float64
			if err := json.Unmarshal(item.Value, &amount); err == nil {
				result.Amount = decimal.NewFromFloat(amount)
			}
		case "MpesaReceiptNumber":
			var receipt string
			if err := json.Unmarshal(item.Value, &receipt); err == nil {
				result.Receipt = receipt
			}
		}
	}
	return result, nil
}

// accessToken returns a cached OAuth token, refreshing when within a minute
// of expiry.
func (a *DarajaAdapter) accessToken(ctx context.Context) (string, error) {
	a.tokenMu.Lock()
	defer a.tokenMu.Unlock()

	if a.token != "" && time.Now().Before(a.tokenExpires.Add(-time.Minute)) {
		return a.token, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL()+darajaAuthPath, nil)
	if err != nil {
		return "", fmt.Errorf("daraja: failed to build auth request: %w", err)
	}
	httpReq.SetBasicAuth(a.config.ConsumerKey, a.config.ConsumerSecret)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ledger.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: auth returned %d", ledger.ErrGatewayAuthFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ledger.ErrGatewayInvalidResponse, err)
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil || auth.AccessToken == "" {
		return "", fmt.Errorf("%w: bad auth payload", ledger.ErrGatewayInvalidResponse)
	}

	ttl := 3600
	if n, err := strconv.Atoi(auth.ExpiresIn); err == nil && n > 0 {
		ttl = n
	}
	a.token = auth.AccessToken
	a.tokenExpires = time.Now().Add(time.Duration(ttl) * time.Second)
	return a.token, nil
}

// post sends an authenticated JSON request and decodes the response
func (a *DarajaAdapter) post(ctx context.Context, path, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("daraja: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL()+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("daraja: failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrGatewayInvalidResponse, err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrGatewayInvalidResponse, err)
	}
	return nil
}

// password builds the Lipa Na M-Pesa password for a timestamp
func (a *DarajaAdapter) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString(
		[]byte(a.config.BusinessShortCode + a.config.Passkey + timestamp))
}

var _ ledger.PaymentGateway = (*DarajaAdapter)(nil)
