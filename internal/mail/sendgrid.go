// Package mail sends transactional email through the SendGrid v3 API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/utils"
)

// Client dispatches account emails. Callers treat a returned error as a
// failed dispatch and roll back whatever provisioning depended on it.
type Client interface {
	SendPasswordSetup(ctx context.Context, toEmail, toName, setupLink string) error
}

type Config struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	timeoutSec := utils.GetEnvAsInt("SENDGRID_TIMEOUT_SECONDS", 30, log)
	return Config{
		APIKey:    utils.GetEnv("SENDGRID_API_KEY", "", log),
		BaseURL:   utils.GetEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com", log),
		FromEmail: utils.GetEnv("SENDGRID_FROM_EMAIL", "no-reply@openlms.dev", log),
		FromName:  utils.GetEnv("SENDGRID_FROM_NAME", "OpenLMS", log),
		Timeout:   time.Duration(timeoutSec) * time.Second,
	}
}

type sendgridClient struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewSendgridClient(log *logger.Logger, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &sendgridClient{
		log:        log.With("client", "SendgridClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

func (c *sendgridClient) SendPasswordSetup(ctx context.Context, toEmail, toName, setupLink string) error {
	body := sendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: toEmail, Name: toName}}}},
		From:             emailAddress{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		Subject:          "Set up your account password",
		Content: []mailContent{{
			Type: "text/html",
			Value: fmt.Sprintf(
				"<p>An account has been created for you.</p><p><a href=%q>Set your password</a> to finish signing up. The link expires in 48 hours.</p>",
				setupLink,
			),
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Password setup email dispatch failed", "to", toEmail, "error", err)
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Error("Sendgrid rejected password setup email", "to", toEmail, "status", resp.StatusCode)
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
