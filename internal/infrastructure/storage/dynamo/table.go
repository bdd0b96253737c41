// Package dynamo stores tasks in a DynamoDB table with a string partition
// key "id".
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var _ output.TaskTable = (*Table)(nil)

const DefaultTableName = "Tasks"

// API is the subset of *dynamodb.Client the table uses.
type API interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type Table struct {
	client API
	name   string
}

func NewTable(client API, tableName string) *Table {
	if tableName == "" {
		tableName = DefaultTableName
	}
	return &Table{client: client, name: tableName}
}

func (t *Table) ScanAll(ctx context.Context) ([]entity.Task, error) {
	paginator := dynamodb.NewScanPaginator(t.client, &dynamodb.ScanInput{
		TableName: aws.String(t.name),
	})

	var tasks []entity.Task
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}

		var batch []entity.Task
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("decode %s items: %w", t.name, err)
		}
		tasks = append(tasks, batch...)
	}

	return tasks, nil
}

func (t *Table) Put(ctx context.Context, task entity.Task) error {
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return fmt.Errorf("encode task %s: %w", task.ID, err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put task %s: %w", task.ID, err)
	}
	return nil
}

// UpdateStatus sets only the status attribute of an existing item. "status"
// is a DynamoDB reserved word, so the expression builder's name placeholders
// are required. The attribute_exists condition keeps UpdateItem from
// creating a status-only item for an id deleted in the meantime.
func (t *Table) UpdateStatus(ctx context.Context, id string, status entity.TaskStatus) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("status"), expression.Value(string(status)))).
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return fmt.Errorf("build update expression: %w", err)
	}

	_, err = t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("update task %s: %w", id, entity.ErrTaskNotFound)
		}
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return nil
}

func (t *Table) Delete(ctx context.Context, id string) error {
	_, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       key(id),
	})
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
