package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const defaultSendTimeout = 10 * time.Second

// SendAPI defines the interface for outbound email calls
type SendAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Client delivers transactional contact-form notifications through SES.
type Client struct {
	api       SendAPI
	sender    string
	recipient string
	timeout   time.Duration
}

type ClientConfig struct {
	Region    string
	Sender    string
	Recipient string
	Timeout   time.Duration
}

// NewClient creates an SES client with the given configuration
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	return &Client{
		api:       ses.NewFromConfig(awsCfg),
		sender:    cfg.Sender,
		recipient: cfg.Recipient,
		timeout:   timeout,
	}, nil
}

// NewClientWithAPI creates a client around an existing API implementation (for testing)
func NewClientWithAPI(api SendAPI, sender, recipient string) *Client {
	return &Client{api: api, sender: sender, recipient: recipient, timeout: defaultSendTimeout}
}

// SendContactNotification emails the site owner about a new contact message
func (c *Client) SendContactNotification(ctx context.Context, name, email, subject, message string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	bodyText := fmt.Sprintf("New message from %s (%s)\n\nSubject: %s\n\nMessage:\n%s", name, email, subject, message)
	bodyHTML := fmt.Sprintf(`<html><body style="font-family: sans-serif; line-height: 1.6; color: #333;">
<h2>New contact from the portfolio</h2>
<p><strong>From:</strong> %s (%s)</p>
<p><strong>Subject:</strong> %s</p>
<div style="padding: 15px; background-color: #f9f9f9; border-left: 4px solid #4f8ef7;">%s</div>
</body></html>`, name, email, subject, strings.ReplaceAll(message, "\n", "<br>"))

	_, err := c.api.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(c.sender),
		Destination: &types.Destination{
			ToAddresses: []string{c.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(fmt.Sprintf("[Portfolio] New message from %s: %s", name, subject)),
			},
			Body: &types.Body{
				Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyText)},
				Html: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyHTML)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}

	return nil
}
