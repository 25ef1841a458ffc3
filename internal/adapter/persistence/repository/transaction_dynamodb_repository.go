package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	defaultTransactionsTableName = "kpay_transactions"
	transactionsStatusIndex      = "status-index"
	transactionsUserIDIndex      = "user_id-index"
	transactionsOrderIDIndex     = "order_id-index"
)

type transactionItem struct {
	Reference   string `dynamodbav:"reference"`
	Entity      string `dynamodbav:"entity"`
	Amount      string `dynamodbav:"amount"`
	Price       string `dynamodbav:"price,omitempty"`
	Description string `dynamodbav:"description,omitempty"`
	Status      string `dynamodbav:"status"`
	Currency    string `dynamodbav:"currency"`
	CreatedAt   string `dynamodbav:"created_at"`
	ExpiresAt   string `dynamodbav:"expires_at,omitempty"`
	PaidAt      string `dynamodbav:"paid_at,omitempty"`

	Metadata       map[string]interface{} `dynamodbav:"metadata,omitempty"`
	APIResponse    map[string]interface{} `dynamodbav:"api_response,omitempty"`
	APIResponseRaw string                 `dynamodbav:"api_response_raw,omitempty"`

	UserID  string `dynamodbav:"user_id,omitempty"`
	OrderID string `dynamodbav:"order_id,omitempty"`
}

// TransactionDynamoRepository persists Transaction entities in DynamoDB.
//
// Table requirements:
//   - PK: reference (string)
//   - GSI: status-index (PK: status)
//   - GSI: user_id-index (PK: user_id)
//   - GSI: order_id-index (PK: order_id)

type TransactionDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ITransactionRepository = (*TransactionDynamoRepository)(nil)

func NewTransactionDynamoRepository(ddb *dynamodb.Client) *TransactionDynamoRepository {
	return &TransactionDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("TRANSACTIONS_TABLE", defaultTransactionsTableName),
	}
}

func (r *TransactionDynamoRepository) Create(ctx context.Context, tx entities.Transaction) (entities.Transaction, error) {
	it := toTransactionItem(tx)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Transaction{}, err
	}

	// The reference is unique and immutable once set.
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#reference)"),
		ExpressionAttributeNames: map[string]string{
			"#reference": "reference",
		},
	})
	if err != nil {
		return entities.Transaction{}, err
	}
	return tx, nil
}

func (r *TransactionDynamoRepository) GetByReference(ctx context.Context, reference string) (entities.Transaction, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"reference": &types.AttributeValueMemberS{Value: reference},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Transaction{}, err
	}
	if len(out.Item) == 0 {
		return entities.Transaction{}, nil
	}

	var it transactionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Transaction{}, err
	}
	return fromTransactionItem(it), nil
}

// UpdateStatus writes tx back only when the stored status still matches
// expected. A racing writer that already moved the record on makes the
// condition fail, surfaced as interfaces.ErrStatusConflict so callers can
// treat the transition as a duplicate instead of double-applying it.
func (r *TransactionDynamoRepository) UpdateStatus(ctx context.Context, tx entities.Transaction, expected entities.TransactionStatus) (entities.Transaction, error) {
	it := toTransactionItem(tx)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Transaction{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#reference) AND #status = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#reference": "reference",
			"#status":    "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return entities.Transaction{}, interfaces.ErrStatusConflict
		}
		return entities.Transaction{}, err
	}
	return tx, nil
}

func (r *TransactionDynamoRepository) ListByStatus(ctx context.Context, status entities.TransactionStatus) ([]entities.Transaction, error) {
	return r.queryIndex(ctx, transactionsStatusIndex, "#status = :v", map[string]string{"#status": "status"}, string(status))
}

func (r *TransactionDynamoRepository) ListByUser(ctx context.Context, userID string) ([]entities.Transaction, error) {
	return r.queryIndex(ctx, transactionsUserIDIndex, "user_id = :v", nil, userID)
}

func (r *TransactionDynamoRepository) ListByOrder(ctx context.Context, orderID string) ([]entities.Transaction, error) {
	return r.queryIndex(ctx, transactionsOrderIDIndex, "order_id = :v", nil, orderID)
}

func (r *TransactionDynamoRepository) queryIndex(ctx context.Context, index, keyCondition string, names map[string]string, value string) ([]entities.Transaction, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(keyCondition),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	}
	if len(names) > 0 {
		in.ExpressionAttributeNames = names
	}

	out, err := r.ddb.Query(ctx, in)
	if err != nil {
		return nil, err
	}

	items := make([]entities.Transaction, 0, len(out.Items))
	for _, raw := range out.Items {
		var it transactionItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromTransactionItem(it))
	}
	return items, nil
}

func toTransactionItem(tx entities.Transaction) transactionItem {
	it := transactionItem{
		Reference:      tx.Reference,
		Entity:         tx.Entity,
		Amount:         tx.Amount.String(),
		Description:    tx.Description,
		Status:         string(tx.Status),
		Currency:       tx.Currency,
		CreatedAt:      tx.CreatedAt.UTC().Format(time.RFC3339Nano),
		Metadata:       tx.Metadata,
		APIResponse:    tx.APIResponse,
		APIResponseRaw: string(tx.APIResponseRaw),
		UserID:         tx.UserID,
		OrderID:        tx.OrderID,
	}
	if tx.Price != nil {
		it.Price = tx.Price.String()
	}
	if tx.ExpiresAt != nil {
		it.ExpiresAt = tx.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}
	if tx.PaidAt != nil {
		it.PaidAt = tx.PaidAt.UTC().Format(time.RFC3339Nano)
	}
	return it
}

func fromTransactionItem(it transactionItem) entities.Transaction {
	amount, _ := decimal.NewFromString(it.Amount)
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)

	tx := entities.Transaction{
		Reference:   it.Reference,
		Entity:      it.Entity,
		Amount:      amount,
		Description: it.Description,
		Status:      entities.TransactionStatus(it.Status),
		Currency:    it.Currency,
		CreatedAt:   createdAt,
		Metadata:    it.Metadata,
		APIResponse: it.APIResponse,
		UserID:      it.UserID,
		OrderID:     it.OrderID,
	}
	if it.Price != "" {
		if price, err := decimal.NewFromString(it.Price); err == nil {
			tx.Price = &price
		}
	}
	if it.ExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, it.ExpiresAt); err == nil {
			tx.ExpiresAt = &t
		}
	}
	if it.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, it.PaidAt); err == nil {
			tx.PaidAt = &t
		}
	}
	if it.APIResponseRaw != "" {
		tx.APIResponseRaw = json.RawMessage(it.APIResponseRaw)
	}
	return tx
}
