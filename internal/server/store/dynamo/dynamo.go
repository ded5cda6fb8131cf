// Package dynamo implements store.Store on AWS DynamoDB.
//
// Documents are converted with the attributevalue package and every request
// expression is produced by the expression builder, so attribute names such
// as "name" never collide with DynamoDB reserved words.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrijs2005/astdirectory/internal/common"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
)

// API is the subset of *dynamodb.Client used by Store.
type API interface {
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Options configures the client built by NewFromConfig. Empty credentials fall
// back to the default AWS credential chain; an empty Endpoint uses AWS.
type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newDynamoClientFromConfig = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) API {
		return dynamodb.NewFromConfig(cfg, optFns...)
	}
)

// Store is a DynamoDB-backed store.Store.
type Store struct {
	client API
}

// New wraps an existing client.
func New(client API) *Store {
	return &Store{client: client}
}

// NewFromConfig loads the AWS configuration and builds a DynamoDB client.
func NewFromConfig(ctx context.Context, o Options) (*Store, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newDynamoClientFromConfig(cfg, func(opts *dynamodb.Options) {
		if o.Endpoint != "" {
			opts.BaseEndpoint = aws.String(o.Endpoint)
		}
	})

	return New(client), nil
}

func (s *Store) Scan(ctx context.Context, table string) ([]store.Document, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(table)})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return unmarshalItems(out.Items)
}

func (s *Store) Query(ctx context.Context, table string, key store.Key) ([]store.Document, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(key.Name).Equal(expression.Value(key.Value))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return unmarshalItems(out.Items)
}

func (s *Store) Put(ctx context.Context, table string, key store.Key, item store.Document, cond store.Condition) error {
	doc, err := store.ToDocument(item)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	if doc == nil {
		doc = store.Document{}
	}
	doc[key.Name] = key.Value

	av, err := attributevalue.MarshalMap(map[string]any(doc))
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}

	in := &dynamodb.PutItemInput{TableName: aws.String(table), Item: av}

	if cond == store.MustExist {
		expr, err := expression.NewBuilder().
			WithCondition(expression.AttributeExists(expression.Name(key.Name))).
			Build()
		if err != nil {
			return fmt.Errorf("put %s: %w", table, err)
		}
		in.ConditionExpression = expr.Condition()
		in.ExpressionAttributeNames = expr.Names()
	}

	if _, err := s.client.PutItem(ctx, in); err != nil {
		return mapError(fmt.Sprintf("put %s %s=%s", table, key.Name, key.Value), err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, table string, key store.Key, set []store.Assignment) error {
	if len(set) == 0 {
		return fmt.Errorf("update %s: no assignments", table)
	}

	var upd expression.UpdateBuilder
	for _, a := range set {
		path, err := documentPath(a.Path)
		if err != nil {
			return fmt.Errorf("update %s: %w", table, err)
		}
		v, err := store.Normalize(a.Value)
		if err != nil {
			return fmt.Errorf("update %s: %w", table, err)
		}
		upd = upd.Set(expression.Name(path), expression.Value(v))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(upd).
		WithCondition(expression.AttributeExists(expression.Name(key.Name))).
		Build()
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	k, err := attributevalue.MarshalMap(map[string]string{key.Name: key.Value})
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       k,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return mapError(fmt.Sprintf("update %s %s=%s", table, key.Name, key.Value), err)
	}
	return nil
}

// documentPath joins path elements for expression.Name, which splits on dots
// and treats brackets as list indexes.
func documentPath(path []string) (string, error) {
	if len(path) == 0 {
		return "", errors.New("empty update path")
	}
	for _, p := range path {
		if p == "" || strings.ContainsAny(p, ".[]") {
			return "", fmt.Errorf("invalid path element %q", p)
		}
	}
	return strings.Join(path, "."), nil
}

func mapError(op string, err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%s: %w", op, common.ErrorNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unmarshalItems(items []map[string]types.AttributeValue) ([]store.Document, error) {
	var raw []map[string]any
	if err := attributevalue.UnmarshalListOfMaps(items, &raw); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	out := make([]store.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, store.Document(m))
	}
	return out, nil
}
