package payment

import (
	"fmt"

	"github.com/crewpay/backend/internal/infrastructure/config"
)

const (
	darajaSandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	darajaProductionBaseURL = "https://api.safaricom.co.ke"

	darajaAuthPath     = "/oauth/v1/generate?grant_type=client_credentials"
	darajaSTKPushPath  = "/mpesa/stkpush/v1/processrequest"
	darajaSTKQueryPath = "/mpesa/stkpushquery/v1/query"
)

// DarajaConfig holds the credentials and endpoints for the M-Pesa Daraja API
type DarajaConfig struct {
	Env               string
	ConsumerKey       string
	ConsumerSecret    string
	BusinessShortCode string
	Passkey           string
	CallbackURL       string
}

// NewDarajaConfig builds a DarajaConfig from application configuration
func NewDarajaConfig(cfg config.MpesaConfig) *DarajaConfig {
	return &DarajaConfig{
		Env:               cfg.Env,
		ConsumerKey:       cfg.ConsumerKey,
		ConsumerSecret:    cfg.ConsumerSecret,
		BusinessShortCode: cfg.BusinessShortCode,
		Passkey:           cfg.Passkey,
		CallbackURL:       cfg.CallbackURL,
	}
}

// Validate checks that the required credentials are present
func (c *DarajaConfig) Validate() error {
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return fmt.Errorf("daraja: consumer key and secret are required")
	}
	if c.BusinessShortCode == "" {
		return fmt.Errorf("daraja: business short code is required")
	}
	if c.Passkey == "" {
		return fmt.Errorf("daraja: passkey is required")
	}
	if c.CallbackURL == "" {
		return fmt.Errorf("daraja: callback URL is required")
	}
	return nil
}

// BaseURL returns the API base URL for the configured environment
func (c *DarajaConfig) BaseURL() string {
	if c.Env == "production" {
		return darajaProductionBaseURL
	}
	return darajaSandboxBaseURL
}
