package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxBatchWriteSize is DynamoDB's BatchWriteItem limit.
const maxBatchWriteSize = 25

// unprocessedRetries bounds the retry loop for throttled writes.
const unprocessedRetries = 3

// batchWrite applies write requests in chunks of 25, retrying
// unprocessed items with a short linear backoff. Chunks apply
// sequentially and the loop checks cancellation between chunks, so an
// interrupted run leaves a committed prefix and no half-applied chunk.
func batchWrite(ctx context.Context, client *dynamodb.Client, tableName string, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += maxBatchWriteSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := start + maxBatchWriteSize
		if end > len(requests) {
			end = len(requests)
		}
		pending := requests[start:end]

		for attempt := 0; len(pending) > 0; attempt++ {
			out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{tableName: pending},
			})
			if err != nil {
				return fmt.Errorf("batch write failed: %w", err)
			}
			pending = out.UnprocessedItems[tableName]
			if len(pending) == 0 {
				break
			}
			if attempt >= unprocessedRetries {
				return fmt.Errorf("batch write left %d unprocessed items after %d retries", len(pending), attempt)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt+1) * 100 * time.Millisecond):
			}
		}
	}
	return nil
}
