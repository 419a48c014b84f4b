package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/arxdex/arxdex/internal/index"
)

// maxBatchSize is the BatchWriteItem limit imposed by DynamoDB.
const maxBatchSize = 25

// maxUnprocessedRetries bounds re-submission of items DynamoDB returned
// as unprocessed (throughput pushback).
const maxUnprocessedRetries = 5

// BatchPut upserts items in chunks of 25. A PutRequest overwrites any
// existing item with the same (PK, SK), so re-submitting the same item
// is semantically a no-op.
func (s *Store) BatchPut(ctx context.Context, items []index.Item) error {
	requests := make([]types.WriteRequest, 0, len(items))
	for _, it := range items {
		av, err := attributevalue.MarshalMap(it)
		if err != nil {
			return fmt.Errorf("marshaling item %s/%s: %w", it.PK, it.SK, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}

	for start := 0; start < len(requests); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(requests) {
			end = len(requests)
		}
		if err := s.writeChunk(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// writeChunk submits one chunk, re-submitting unprocessed items until
// the chunk drains or the retry budget runs out.
func (s *Store) writeChunk(ctx context.Context, chunk []types.WriteRequest) error {
	pending := chunk
	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt > maxUnprocessedRetries {
			return fmt.Errorf("batch write to %s: %d items still unprocessed after %d retries",
				s.table, len(pending), maxUnprocessedRetries)
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.table: pending},
		})
		if err != nil {
			return wrapError("batch write", err)
		}
		pending = out.UnprocessedItems[s.table]
	}
	return nil
}
