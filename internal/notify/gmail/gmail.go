// Package gmail delivers reminder notifications through the Gmail API
// using an installed-app OAuth token.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"fintrack/internal/notify"
)

// Config selects the sender address and where the OAuth client and token
// come from. Inline JSON wins over files.
type Config struct {
	Sender     string
	ClientJSON string
	ClientFile string
	TokenJSON  string
	TokenFile  string
}

// Sender sends notifications as the configured Gmail account.
type Sender struct {
	svc  *gmail.Service
	from string
}

var _ notify.Notifier = (*Sender)(nil)

// New builds a Gmail client from the OAuth client secret and stored token.
func New(ctx context.Context, cfg Config) (*Sender, error) {
	if strings.TrimSpace(cfg.Sender) == "" {
		return nil, errors.New("missing gmail sender address")
	}
	clientJSON, err := readSecret(cfg.ClientJSON, cfg.ClientFile, "oauth client")
	if err != nil {
		return nil, err
	}
	tokenJSON, err := readSecret(cfg.TokenJSON, cfg.TokenFile, "oauth token")
	if err != nil {
		return nil, err
	}

	oauthCfg, err := google.ConfigFromJSON(clientJSON, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return NewWithService(svc, cfg.Sender), nil
}

// NewWithService wraps an existing Gmail service.
func NewWithService(svc *gmail.Service, from string) *Sender {
	return &Sender{svc: svc, from: from}
}

func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	if msg.To == "" {
		return fmt.Errorf("reminder %s: %w", msg.ReminderID, errors.New("no recipient"))
	}
	raw := base64.URLEncoding.EncodeToString(BuildMIME(s.from, msg))
	if _, err := s.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send to %s: %w", msg.To, err)
	}
	return nil
}

// BuildMIME renders msg as a plain-text RFC 5322 message.
func BuildMIME(from string, msg notify.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject()))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body(), "\n", "\r\n"))
	return []byte(b.String())
}

func readSecret(inline, file, what string) ([]byte, error) {
	switch {
	case strings.TrimSpace(inline) != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s file: %w", what, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("missing %s (inline JSON or file)", what)
	}
}
