package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"freezewatch/internal/types"
)

// SESAPI defines the subset of the SES v2 client used by SESDispatcher.
// Extracted for testability.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESDispatcherConfig holds the configuration for creating an SESDispatcher.
type SESDispatcherConfig struct {
	// Sender is the verified source address.
	Sender string
	// Recipients is the destination address list.
	Recipients []string
	// Logger for send operations.
	Logger *slog.Logger
}

// SESDispatcher sends alert emails through AWS SES v2 with simple plaintext
// content. Authentication is handled via the Lambda execution role, and the
// AWS SDK provides built-in retry logic.
type SESDispatcher struct {
	api        SESAPI
	sender     string
	recipients []string
	logger     *slog.Logger
}

// NewSESDispatcher creates an SESDispatcher from an AWS config.
func NewSESDispatcher(awsCfg aws.Config, cfg SESDispatcherConfig) *SESDispatcher {
	return NewSESDispatcherWithAPI(sesv2.NewFromConfig(awsCfg), cfg)
}

// NewSESDispatcherWithAPI creates an SESDispatcher with a pre-configured
// SESAPI. Useful for testing with a mock.
func NewSESDispatcherWithAPI(api SESAPI, cfg SESDispatcherConfig) *SESDispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SESDispatcher{
		api:        api,
		sender:     cfg.Sender,
		recipients: cfg.Recipients,
		logger:     logger,
	}
}

// Send transmits a plaintext email to the configured recipients.
//
// Error mapping:
//   - MessageRejected, TooManyRequestsException, SendingPausedException and
//     everything else map to ErrCodeDispatchEmail; the underlying SES error
//     is preserved in the chain for logging.
func (s *SESDispatcher) Send(ctx context.Context, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &sestypes.Destination{
			ToAddresses: s.recipients,
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &sestypes.Body{
					Text: &sestypes.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.api.SendEmail(ctx, input)
	if err != nil {
		return mapSESError(err)
	}

	msgID := ""
	if result.MessageId != nil {
		msgID = *result.MessageId
	}
	s.logger.InfoContext(ctx, "alert email sent",
		"subject", subject,
		"recipients", len(s.recipients),
		"message_id", msgID,
	)

	return nil
}

// mapSESError translates AWS SES errors into domain AppErrors.
func mapSESError(err error) error {
	var msgRejected *sestypes.MessageRejected
	if errors.As(err, &msgRejected) {
		return types.NewAppError(
			types.ErrCodeDispatchEmail,
			fmt.Sprintf("SES rejected message: %v", err),
			err,
		)
	}

	var tooManyReqs *sestypes.TooManyRequestsException
	if errors.As(err, &tooManyReqs) {
		return types.NewAppError(
			types.ErrCodeDispatchEmail,
			fmt.Sprintf("SES rate limit exceeded: %v", err),
			err,
		)
	}

	return types.NewAppError(
		types.ErrCodeDispatchEmail,
		fmt.Sprintf("SES error: %v", err),
		err,
	)
}
