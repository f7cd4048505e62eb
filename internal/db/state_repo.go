// Package db implements the persisted-state store on DynamoDB. The monitor
// keeps exactly one item: the last classified thermal state for the single
// monitored property. Exactly-once-per-transition alerting relies on this
// store giving a consistent read at invocation start and a durable write
// before the invocation ends.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"freezewatch/internal/types"
)

// DefaultStateKey is the fixed item id: one property, one FSM instance.
const DefaultStateKey = "main"

// DynamoAPI defines the subset of the DynamoDB client used by StateRepository.
// Extracted for testability.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// stateItem is the DynamoDB representation of the persisted state.
type stateItem struct {
	ID        string `dynamodbav:"id"`
	Mode      string `dynamodbav:"mode"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// StateRepositoryConfig holds the configuration for creating a StateRepository.
type StateRepositoryConfig struct {
	// TableName is the DynamoDB table holding the state item.
	TableName string
	// Key is the item id. Defaults to DefaultStateKey.
	Key string
	// Clock returns the current time for the updated_at attribute. Defaults
	// to time.Now. Injected for deterministic tests.
	Clock func() time.Time
	// Logger for store operations.
	Logger *slog.Logger
}

// StateRepository reads and writes the single persisted ThermalState item.
type StateRepository struct {
	api       DynamoAPI
	tableName string
	key       string
	clock     func() time.Time
	logger    *slog.Logger
}

// NewStateRepository creates a StateRepository from an AWS config.
func NewStateRepository(awsCfg aws.Config, cfg StateRepositoryConfig) *StateRepository {
	return NewStateRepositoryWithAPI(dynamodb.NewFromConfig(awsCfg), cfg)
}

// NewStateRepositoryWithAPI creates a StateRepository with a pre-configured
// DynamoAPI. Useful for testing with a mock.
func NewStateRepositoryWithAPI(api DynamoAPI, cfg StateRepositoryConfig) *StateRepository {
	key := cfg.Key
	if key == "" {
		key = DefaultStateKey
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StateRepository{
		api:       api,
		tableName: cfg.TableName,
		key:       key,
		clock:     clock,
		logger:    logger,
	}
}

// Read returns the persisted state. A missing item or an item with an
// unrecognized mode value yields PersistedState{Last: nil}, the true
// first-run shape.
func (r *StateRepository) Read(ctx context.Context) (types.PersistedState, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]dynamodbtypes.AttributeValue{
			"id": &dynamodbtypes.AttributeValueMemberS{Value: r.key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return types.PersistedState{}, types.NewAppError(
			types.ErrCodePersistence,
			fmt.Sprintf("failed to read state item %q", r.key),
			err,
		)
	}

	if len(out.Item) == 0 {
		return types.PersistedState{}, nil
	}

	var item stateItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return types.PersistedState{}, types.NewAppError(
			types.ErrCodePersistence,
			fmt.Sprintf("failed to decode state item %q", r.key),
			err,
		)
	}

	state := types.ThermalState(item.Mode)
	if state != types.StateCold && state != types.StateWarm {
		r.logger.WarnContext(ctx, "stored state has unrecognized mode, treating as absent",
			"mode", item.Mode,
		)
		return types.PersistedState{}, nil
	}

	persisted := types.PersistedState{Last: &state}
	if ts, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
		persisted.UpdatedAt = ts
	}
	return persisted, nil
}

// Write stores the new state with an updated_at timestamp. No transition is
// trusted as committed until this succeeds.
func (r *StateRepository) Write(ctx context.Context, state types.ThermalState) error {
	item, err := attributevalue.MarshalMap(stateItem{
		ID:        r.key,
		Mode:      string(state),
		UpdatedAt: r.clock().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return types.NewAppError(
			types.ErrCodePersistence,
			"failed to encode state item",
			err,
		)
	}

	if _, err := r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}); err != nil {
		return types.NewAppError(
			types.ErrCodePersistence,
			fmt.Sprintf("failed to write state %s", state),
			err,
		)
	}

	r.logger.InfoContext(ctx, "state persisted",
		"state", string(state),
		"key", r.key,
	)

	return nil
}
