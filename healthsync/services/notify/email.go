package notify

import (
	"context"
	"fmt"
	"strings"

	"healthsync/healthsync/config"
	httputils "healthsync/healthsync/utils/http"
	"healthsync/healthsync/utils/logging"

	"go.uber.org/zap"
)

const mailjetSendURL = "https://api.mailjet.com/v3.1/send"

// EmailSender is what the reminder loop needs; the Mailjet client and test
// doubles both satisfy it.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailjetClient sends mail through the Mailjet v3.1 REST API.
type MailjetClient struct {
	apiKey    string
	secretKey string
	fromEmail string
	fromName  string
	http      *httputils.Client
}

func NewMailjetClient(cfg config.Config, httpClient *httputils.Client) *MailjetClient {
	return &MailjetClient{
		apiKey:    cfg.MailjetAPIKey,
		secretKey: cfg.MailjetSecretKey,
		fromEmail: cfg.MailjetFromEmail,
		fromName:  cfg.MailjetFromName,
		http:      httpClient,
	}
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	TextPart string           `json:"TextPart"`
}

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetPayload struct {
	Messages []mailjetMessage `json:"Messages"`
}

func (c *MailjetClient) Send(ctx context.Context, to, subject, body string) error {
	if !isValidEmail(to) {
		return fmt.Errorf("invalid email address: %s", to)
	}

	payload := mailjetPayload{
		Messages: []mailjetMessage{{
			From:     mailjetAddress{Email: c.fromEmail, Name: c.fromName},
			To:       []mailjetAddress{{Email: to}},
			Subject:  subject,
			TextPart: body,
		}},
	}

	if err := c.http.PostJSONWithBasicAuth(ctx, mailjetSendURL, c.apiKey, c.secretKey, payload, nil); err != nil {
		logging.ErrorLogger.Error("mailjet send failed",
			zap.String("to", to), zap.Error(err))
		return err
	}

	logging.AppLogger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func isValidEmail(addr string) bool {
	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	return strings.Contains(addr[at+1:], ".")
}
