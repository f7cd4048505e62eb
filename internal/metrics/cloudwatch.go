// Package metrics emits operational metrics to CloudWatch. Publish failures
// are logged and never fatal: a lost metric must not block an alert or a
// state write.
package metrics

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"freezewatch/internal/types"
)

// Metric and dimension names.
const (
	MetricStateTransition = "StateTransition"
	MetricForecastDataGap = "ForecastDataGap"
	DimKind               = "Kind"
)

// CloudWatchAPI abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Publisher emits monitor metrics to a CloudWatch namespace.
type Publisher struct {
	client    CloudWatchAPI
	namespace string
	logger    *slog.Logger
}

// NewPublisher creates a Publisher for the given namespace.
func NewPublisher(client CloudWatchAPI, namespace string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordTransition emits a StateTransition count with the alert kind as a
// dimension. Fired on INITIALIZE and TRANSITION enactments.
func (p *Publisher) RecordTransition(ctx context.Context, kind types.AlertKind) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(p.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(MetricStateTransition),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{
						Name:  aws.String(DimKind),
						Value: aws.String(string(kind)),
					},
				},
			},
		},
	}

	if _, err := p.client.PutMetricData(ctx, input); err != nil {
		p.logger.WarnContext(ctx, "failed to record transition metric",
			"error", err,
			"kind", string(kind),
		)
	}
}

// RecordDataGap emits a ForecastDataGap count. Fired when a NORMAL invocation
// receives no hourly data; an alarm on this metric surfaces provider outages.
func (p *Publisher) RecordDataGap(ctx context.Context) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(p.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(MetricForecastDataGap),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	}

	if _, err := p.client.PutMetricData(ctx, input); err != nil {
		p.logger.WarnContext(ctx, "failed to record data gap metric",
			"error", err,
		)
	}
}
