package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/arxdex/arxdex/internal/index"
	"github.com/arxdex/arxdex/internal/store"
)

// Query runs one partition-scoped query, following pagination until the
// partition is exhausted or the requested limit is met.
func (s *Store) Query(ctx context.Context, req store.Request) ([]index.Item, error) {
	pkAttr, skAttr, err := keyAttrs(req.Index)
	if err != nil {
		return nil, err
	}

	keyCond := pkAttr + " = :pk"
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: req.Partition},
	}
	if req.SortLow != "" && req.SortHigh != "" {
		keyCond += " AND " + skAttr + " BETWEEN :lo AND :hi"
		values[":lo"] = &types.AttributeValueMemberS{Value: req.SortLow}
		values[":hi"] = &types.AttributeValueMemberS{Value: req.SortHigh}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(!req.Descending),
	}
	if req.Index != "" {
		input.IndexName = aws.String(req.Index)
	}
	if req.Limit > 0 {
		input.Limit = aws.Int32(int32(req.Limit))
	}

	var items []index.Item
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, wrapError("query "+req.Partition, err)
		}

		for _, av := range out.Items {
			var it index.Item
			if err := attributevalue.UnmarshalMap(av, &it); err != nil {
				return nil, wrapError("unmarshal "+req.Partition, err)
			}
			items = append(items, it)
			if req.Limit > 0 && len(items) >= req.Limit {
				return items, nil
			}
		}

		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
