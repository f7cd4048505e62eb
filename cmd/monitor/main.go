// Package main is the entrypoint for the freeze monitor Lambda function.
//
// The monitor runs on a schedule (EventBridge) or on demand with a diagnostic
// mode in the trigger payload. Each invocation fetches the forecast,
// classifies it COLD or WARM, compares against the persisted state in
// DynamoDB, and alerts via SES email (plus optional SNS SMS) exactly when the
// state changes.
//
// This file handles dependency wiring (cold start) and delegates all business
// logic to the internal/monitor package.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/google/uuid"

	"freezewatch/internal/alert"
	"freezewatch/internal/config"
	"freezewatch/internal/db"
	"freezewatch/internal/external"
	"freezewatch/internal/metrics"
	"freezewatch/internal/monitor"
	"freezewatch/internal/types"
)

// handler owns the per-invocation flow around the Runner: mode parsing,
// invocation-scoped logging, and mapping outcomes to the Lambda response.
type handler struct {
	runner *monitor.Runner
	logger *slog.Logger
}

// Handle processes one trigger event. Failures are reported through the
// response status code rather than a handler error, so a misconfigured manual
// invocation does not trip Lambda retry machinery.
func (h *handler) Handle(ctx context.Context, event types.TriggerEvent) (types.Response, error) {
	logger := h.logger.With("invocation_id", uuid.NewString())

	mode, err := types.ParseMode(event.Mode)
	if err != nil {
		logger.WarnContext(ctx, "rejecting trigger with unrecognized mode",
			"raw_mode", event.Mode,
		)
		return errorResponse(err), nil
	}

	logger = logger.With("mode", string(mode))
	logger.InfoContext(ctx, "monitor invocation starting")

	msg, err := h.runner.Run(ctx, mode)
	if err != nil {
		logger.ErrorContext(ctx, "monitor invocation failed", "error", err)
		return errorResponse(err), nil
	}

	logger.InfoContext(ctx, "monitor invocation completed", "outcome", msg)
	return types.Response{StatusCode: http.StatusOK, Body: msg}, nil
}

// errorResponse maps an error to the Lambda response, using the AppError
// status code when available.
func errorResponse(err error) types.Response {
	status := http.StatusInternalServerError
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
	}
	return types.Response{StatusCode: status, Body: err.Error()}
}

// parseLogLevel maps the configured level name to a slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	// Bootstrap logger; replaced once the configured level is known.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("freeze monitor initializing (cold start)")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	renderer, err := alert.NewRenderer(alert.RendererConfig{
		Timezone:   cfg.Timezone,
		Thresholds: cfg.ThresholdConfig(),
	})
	if err != nil {
		logger.Error("failed to initialize alert renderer", "error", err)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("failed to load AWS SDK config", "error", err)
		os.Exit(1)
	}

	weatherBase := external.NewBaseClient(
		&http.Client{Timeout: cfg.Weather.Timeout},
		"openweather",
		external.DefaultRetryPolicy(),
		"FreezeWatch/1.0",
	)
	provider := external.NewOpenWeatherClient(weatherBase, external.OpenWeatherConfig{
		BaseURL: cfg.Weather.BaseURL,
		APIKey:  cfg.Weather.APIKey,
		Logger:  logger,
	})

	states := db.NewStateRepository(awsCfg, db.StateRepositoryConfig{
		TableName: cfg.State.TableName,
		Key:       cfg.State.Key,
		Logger:    logger,
	})

	email := external.NewSESDispatcher(awsCfg, external.SESDispatcherConfig{
		Sender:     cfg.Email.Sender,
		Recipients: cfg.Email.Recipients,
		Logger:     logger,
	})

	runnerCfg := monitor.RunnerConfig{
		Provider:   provider,
		States:     states,
		Email:      email,
		Renderer:   renderer,
		Thresholds: cfg.ThresholdConfig(),
		Latitude:   cfg.Location.Latitude,
		Longitude:  cfg.Location.Longitude,
		Logger:     logger,
	}

	// The SMS channel only exists when a topic is configured.
	if cfg.SMS.TopicARN != "" {
		runnerCfg.SMS = external.NewSNSDispatcher(awsCfg, external.SNSDispatcherConfig{
			TopicARN: cfg.SMS.TopicARN,
			Logger:   logger,
		})
	}

	if cfg.Observability.EnableMetrics {
		runnerCfg.Metrics = metrics.NewPublisher(
			cloudwatch.NewFromConfig(awsCfg),
			cfg.Observability.MetricNamespace,
			logger,
		)
	}

	h := &handler{
		runner: monitor.NewRunner(runnerCfg),
		logger: logger,
	}

	logger.Info("freeze monitor initialized",
		"state_table", cfg.State.TableName,
		"sms_enabled", cfg.SMS.TopicARN != "",
		"metrics_enabled", cfg.Observability.EnableMetrics,
		"lat", cfg.Location.Latitude,
		"lon", cfg.Location.Longitude,
	)

	// Local mode: read the trigger event from stdin instead of starting the
	// Lambda runtime. Usage: echo '{"mode":"TEST"}' | go run cmd/monitor/main.go
	if cfg.Environment == "local" {
		logger.Info("APP_ENV=local: reading trigger event from stdin")
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("failed to read stdin", "error", err)
			os.Exit(1)
		}

		var event types.TriggerEvent
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &event); err != nil {
				logger.Error("failed to parse trigger event", "error", err)
				os.Exit(1)
			}
		}

		resp, _ := h.Handle(context.Background(), event)
		logger.Info("local invocation finished",
			"status_code", resp.StatusCode,
			"body", resp.Body,
		)
		if resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		return
	}

	lambda.Start(h.Handle)
}
