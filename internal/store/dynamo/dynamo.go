// Package dynamo implements the store contract on AWS DynamoDB using a
// single table with three global secondary indexes.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/arxdex/arxdex/internal/store"
)

// tableWaitTimeout bounds how long EnsureTable waits for a newly created
// table to become ACTIVE.
const tableWaitTimeout = 2 * time.Minute

// Store is a DynamoDB-backed index store.
type Store struct {
	client *dynamodb.Client
	table  string
}

var _ store.Store = (*Store)(nil)

// Options configure the connection.
type Options struct {
	Region   string
	Endpoint string // non-empty for DynamoDB Local
}

// New builds a Store from the default AWS credential chain.
func New(ctx context.Context, table string, opts Options) (*Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return NewFromClient(client, table), nil
}

// NewFromClient wraps an existing DynamoDB client.
func NewFromClient(client *dynamodb.Client, table string) *Store {
	return &Store{client: client, table: table}
}

// keyAttrs maps a store index name to its DynamoDB key attribute names.
func keyAttrs(indexName string) (pk, sk string, err error) {
	switch indexName {
	case "":
		return "PK", "SK", nil
	case store.AuthorIndex:
		return "GSI1PK", "GSI1SK", nil
	case store.PaperIDIndex:
		return "GSI2PK", "GSI2SK", nil
	case store.KeywordIndex:
		return "GSI3PK", "GSI3SK", nil
	default:
		return "", "", fmt.Errorf("unknown index %q", indexName)
	}
}

// EnsureTable creates the table with its three ALL-projection GSIs when
// it does not exist, then waits for it to become ACTIVE. An existing
// table is left untouched.
func (s *Store) EnsureTable(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describing table %s: %w", s.table, err)
	}

	stringAttr := func(name string) types.AttributeDefinition {
		return types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: types.ScalarAttributeTypeS,
		}
	}
	keySchema := func(pk, sk string) []types.KeySchemaElement {
		return []types.KeySchemaElement{
			{AttributeName: aws.String(pk), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(sk), KeyType: types.KeyTypeRange},
		}
	}
	gsi := func(name, pk, sk string) types.GlobalSecondaryIndex {
		return types.GlobalSecondaryIndex{
			IndexName:  aws.String(name),
			KeySchema:  keySchema(pk, sk),
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		KeySchema: keySchema("PK", "SK"),
		AttributeDefinitions: []types.AttributeDefinition{
			stringAttr("PK"), stringAttr("SK"),
			stringAttr("GSI1PK"), stringAttr("GSI1SK"),
			stringAttr("GSI2PK"), stringAttr("GSI2SK"),
			stringAttr("GSI3PK"), stringAttr("GSI3SK"),
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(store.AuthorIndex, "GSI1PK", "GSI1SK"),
			gsi(store.PaperIDIndex, "GSI2PK", "GSI2SK"),
			gsi(store.KeywordIndex, "GSI3PK", "GSI3SK"),
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	input := &dynamodb.DescribeTableInput{TableName: aws.String(s.table)}
	if err := waiter.Wait(ctx, input, tableWaitTimeout); err != nil {
		return fmt.Errorf("waiting for table %s: %w", s.table, err)
	}
	return nil
}

// wrapError translates SDK errors into store-level sentinels where
// callers branch on them.
func wrapError(op string, err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s: %w", op, store.ErrTableNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
