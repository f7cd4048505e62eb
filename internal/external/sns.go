package external

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"freezewatch/internal/types"
)

// SNSAPI defines the subset of the SNS client used by SNSDispatcher.
// Extracted for testability.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSDispatcherConfig holds the configuration for creating an SNSDispatcher.
type SNSDispatcherConfig struct {
	// TopicARN is the SNS topic that fans out to SMS subscribers.
	TopicARN string
	// Logger for publish operations.
	Logger *slog.Logger
}

// SNSDispatcher publishes SMS alerts to an SNS topic. The SMS channel is
// optional: the Runner skips it entirely when no topic is configured.
type SNSDispatcher struct {
	api      SNSAPI
	topicARN string
	logger   *slog.Logger
}

// NewSNSDispatcher creates an SNSDispatcher from an AWS config.
func NewSNSDispatcher(awsCfg aws.Config, cfg SNSDispatcherConfig) *SNSDispatcher {
	return NewSNSDispatcherWithAPI(sns.NewFromConfig(awsCfg), cfg)
}

// NewSNSDispatcherWithAPI creates an SNSDispatcher with a pre-configured
// SNSAPI. Useful for testing with a mock.
func NewSNSDispatcherWithAPI(api SNSAPI, cfg SNSDispatcherConfig) *SNSDispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SNSDispatcher{
		api:      api,
		topicARN: cfg.TopicARN,
		logger:   logger,
	}
}

// Publish sends a short text to the configured topic.
func (s *SNSDispatcher) Publish(ctx context.Context, subject, text string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(text),
	}

	result, err := s.api.Publish(ctx, input)
	if err != nil {
		return types.NewAppError(
			types.ErrCodeDispatchSMS,
			fmt.Sprintf("SNS publish failed: %v", err),
			err,
		)
	}

	msgID := ""
	if result.MessageId != nil {
		msgID = *result.MessageId
	}
	s.logger.InfoContext(ctx, "alert SMS published",
		"subject", subject,
		"message_id", msgID,
	)

	return nil
}
