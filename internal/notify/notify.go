// Package notify delivers accepted contact-form submissions to the site owner.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/types"
	"go.uber.org/zap"
)

// Message is one contact submission ready for delivery.
type Message struct {
	ID         uuid.UUID
	ReceivedAt time.Time
	Request    types.ContactRequest
}

// Sender delivers contact messages. Delivery is attempted once; there is no retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// DeliveryError wraps a failed delivery attempt.
type DeliveryError struct {
	MessageID uuid.UUID
	Cause     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver contact message %s: %v", e.MessageID, e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// Subject returns the email subject line for msg.
func Subject(msg Message) string {
	return fmt.Sprintf("Portfolio contact from %s", msg.Request.Name)
}

// Body returns the plain-text email body for msg.
func Body(msg Message) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", msg.Request.Name)
	fmt.Fprintf(&sb, "Email: %s\n", msg.Request.Email)
	if msg.Request.Phone != "" {
		fmt.Fprintf(&sb, "Phone: %s\n", msg.Request.Phone)
	}
	fmt.Fprintf(&sb, "Received: %s\n", msg.ReceivedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "Reference: %s\n\n", msg.ID)
	sb.WriteString(msg.Request.Message)
	sb.WriteString("\n")
	return sb.String()
}

// LogSender logs submissions instead of sending them. It is used when SES is not configured.
type LogSender struct {
	Logger *zap.Logger
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.Info("contact message received",
		zap.String("id", msg.ID.String()),
		zap.String("from", msg.Request.Email),
		zap.String("name", msg.Request.Name),
		zap.Int("message_length", len(msg.Request.Message)),
	)
	return nil
}

// SESAPI is the subset of the SES client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender emails each submission to a fixed recipient through Amazon SES.
type SESSender struct {
	client SESAPI
	from   string
	to     string
}

// NewSESSender returns a sender using an existing SES client.
func NewSESSender(client SESAPI, from, to string) *SESSender {
	return &SESSender{client: client, from: from, to: to}
}

// NewSESSenderFromEnv loads the default AWS config chain for region and returns an SES sender.
func NewSESSenderFromEnv(ctx context.Context, region, from, to string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewSESSender(ses.NewFromConfig(cfg), from, to), nil
}

// Send implements Sender. The visitor's address is set as Reply-To.
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{s.to},
		},
		ReplyToAddresses: []string{msg.Request.Email},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(Subject(msg)), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(Body(msg)), Charset: aws.String("UTF-8")},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return &DeliveryError{MessageID: msg.ID, Cause: err}
	}
	return nil
}
