package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/comtec/field-reports/internal/config"
)

// Client exposes the webhook notification operation used by the application.
type Client interface {
	SendSubmissionNotice(ctx context.Context, notice SubmissionNotice) error
}

// SubmissionNotice is the payload posted to the configured webhook after a
// report has been archived.
type SubmissionNotice struct {
	Project    string   `json:"proyecto"`
	Supervisor string   `json:"supervisor"`
	Date       string   `json:"fecha"`
	PhotoURLs  []string `json:"fotos"`
	PDFURL     string   `json:"pdf"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	webhookURL string
}

// NewClient builds a webhook client from the provided configuration values.
func NewClient(cfg config.NotifyConfig) *APIClient {
	restyClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		webhookURL: cfg.WebhookURL,
	}
}

// SendSubmissionNotice posts the notice to the webhook URL.
func (c *APIClient) SendSubmissionNotice(ctx context.Context, notice SubmissionNotice) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(notice).
		Post(c.webhookURL)
	if err != nil {
		return fmt.Errorf("send submission notice: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("submission notice rejected: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
