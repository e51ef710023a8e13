// Package deploymentdao records deployment history per backend in DynamoDB.
package deploymentdao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/savaki/ddb/v2"
	"github.com/savaki/gox/slicex"
)

const latest = "latest"

// PK represents a DynamoDB partition key in format {backend-id}/{branch}
// Example: myapp/main
type PK string

// NewPK creates a new partition key from backend id and branch
func NewPK(backendID, branch string) PK {
	return PK(fmt.Sprintf("%s/%s", backendID, branch))
}

// ParsePK parses a partition key into its backend id and branch components
func ParsePK(pk PK) (backendID, branch string, err error) {
	s := string(pk)
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid PK format: %s, expected {backend-id}/{branch}", s)
	}
	return parts[0], parts[1], nil
}

// String returns the string representation of the partition key
func (pk PK) String() string {
	return string(pk)
}

// ID represents a deployment ID in format {backend-id}/{branch}:{ksuid}
// Example: myapp/main:2HFj3kLmNoPqRsTuVwXy
type ID string

func (id ID) String() string {
	return string(id)
}

// ParseID parses a deployment ID into its partition key and sort key components
func ParseID(id ID) (pk PK, sk string, err error) {
	s := string(id)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid deployment ID format: %s, expected {backend-id}/{branch}:{ksuid}", s)
	}
	return PK(parts[0]), parts[1], nil
}

// NewID constructs an ID from partition key and sort key
func NewID(pk PK, sk string) ID {
	return ID(fmt.Sprintf("%s:%s", pk, sk))
}

// Status represents the current status of a deployment
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSuccess    Status = "SUCCESS"
	StatusFailed     Status = "FAILED"
)

// Record represents a deployment record in DynamoDB
type Record struct {
	PK           PK      `ddb:"hash" dynamodbav:"pk"`  // {backend-id}/{branch} - DynamoDB partition key
	SK           string  `ddb:"range" dynamodbav:"sk"` // KSUID - DynamoDB sort key
	ID           ID      `dynamodbav:"id,omitempty"`   // ID is only used for latest entries
	BackendID    string  `dynamodbav:"backend_id,omitempty"`
	Branch       string  `dynamodbav:"branch,omitempty"`
	StackName    string  `dynamodbav:"stack_name,omitempty"`
	Operation    string  `dynamodbav:"operation,omitempty"`     // CREATE, UPDATE, or NOOP
	TemplateHash string  `dynamodbav:"template_hash,omitempty"` // sha256 of the deployed template
	Status       Status  `dynamodbav:"status,omitempty"`
	ApiEndpoint  *string `dynamodbav:"api_endpoint,omitempty,omitempty"`
	ErrorMsg     *string `dynamodbav:"error_msg,omitempty,omitempty"`
	CreatedAt    int64   `dynamodbav:"created_at,omitempty"`
	FinishedAt   *int64  `dynamodbav:"finished_at,omitempty,omitempty"`
	UpdatedAt    int64   `dynamodbav:"updated_at,omitempty"`
}

// GetID returns the full deployment ID in format: {backend-id}/{branch}:{ksuid}
func (r *Record) GetID() ID {
	if r.ID != "" {
		return r.ID
	}
	return NewID(r.PK, r.SK)
}

// CreateInput contains the fields needed to create a new deployment record
type CreateInput struct {
	BackendID    string
	Branch       string
	SK           string // KSUID sort key
	StackName    string
	TemplateHash string
}

// UpdateInput contains the fields that can be updated on a deployment record
type UpdateInput struct {
	PK          PK
	SK          string
	Status      *Status
	Operation   *string
	ApiEndpoint *string
	ErrorMsg    *string
}

// DAO provides data access operations for deployment records
type DAO struct {
	db    *ddb.DDB
	table *ddb.Table
}

// New creates a new DAO instance
func New(client *dynamodb.Client, tableName string) *DAO {
	db := ddb.New(client)
	table := db.MustTable(tableName, &Record{})
	return &DAO{
		db:    db,
		table: table,
	}
}

// Create creates a new deployment record with initial status PENDING
func (d *DAO) Create(ctx context.Context, input CreateInput) (Record, error) {
	pk := NewPK(input.BackendID, input.Branch)
	now := time.Now().Unix()

	record := Record{
		PK:           pk,
		SK:           input.SK,
		BackendID:    input.BackendID,
		Branch:       input.Branch,
		StackName:    input.StackName,
		TemplateHash: input.TemplateHash,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := d.table.Put(&record).RunWithContext(ctx); err != nil {
		return Record{}, fmt.Errorf("failed to create deployment record: %w", err)
	}
	return record, nil
}

// Find retrieves a deployment record by ID
func (d *DAO) Find(ctx context.Context, id ID) (Record, error) {
	pk, sk, err := ParseID(id)
	if err != nil {
		return Record{}, err
	}

	var record Record
	err = d.table.Get(pk.String()).
		Range(sk).
		ConsistentRead(true).
		ScanWithContext(ctx, &record)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "item not found") || strings.Contains(errStr, "ItemNotFound") {
			return Record{}, fmt.Errorf("deployment record not found: %s", id)
		}
		return Record{}, fmt.Errorf("failed to find deployment record: %w", err)
	}

	if record.PK == "" && record.SK == "" {
		return Record{}, fmt.Errorf("deployment record not found: %s", id)
	}
	return record, nil
}

// UpdateStatus updates a deployment record and maintains a "latest" magic
// record with pk=latest/{branch} and sk={original pk} so the most recent
// deployment per backend can be queried in one pass.
func (d *DAO) UpdateStatus(ctx context.Context, input UpdateInput) error {
	if input.Status == nil {
		return fmt.Errorf("status is required")
	}

	now := time.Now().Unix()

	update := d.table.Update(input.PK).
		Range(input.SK).
		Set("#Status = ?", string(*input.Status)).
		Set("#UpdatedAt = ?", now)

	if *input.Status == StatusSuccess || *input.Status == StatusFailed {
		update = update.Set("#FinishedAt = ?", now)
	}
	if input.Operation != nil {
		update = update.Set("#Operation = ?", *input.Operation)
	}
	if input.ApiEndpoint != nil {
		update = update.Set("#ApiEndpoint = ?", *input.ApiEndpoint)
	}
	if input.ErrorMsg != nil {
		update = update.Set("#ErrorMsg = ?", *input.ErrorMsg)
	}

	backendID, branch, err := ParsePK(input.PK)
	if err != nil {
		return fmt.Errorf("failed to parse PK: %w", err)
	}

	latestRecord := &Record{
		PK:        NewPK(latest, branch),
		SK:        input.PK.String(),
		ID:        NewID(input.PK, input.SK),
		BackendID: backendID,
		Branch:    branch,
		Status:    *input.Status,
		UpdatedAt: now,
	}

	put := d.table.Put(latestRecord)

	if _, err := d.db.TransactWriteItemsWithContext(ctx, update, put); err != nil {
		return fmt.Errorf("failed to update deployment status: %w", err)
	}
	return nil
}

// Query returns all deployments for a given backend-id/branch partition key
func (d *DAO) Query(ctx context.Context, pk PK) ([]Record, error) {
	var records []Record
	err := d.table.Query("#PK = ?", pk.String()).
		FindAllWithContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to query deployments: %w", err)
	}
	return records, nil
}

// QueryLatest returns the latest deployment for each backend on the given
// branch, most recently updated first.
func (d *DAO) QueryLatest(ctx context.Context, branch string) ([]Record, error) {
	pk := NewPK(latest, branch)

	var records []Record
	err := d.table.Query("#PK = ?", pk).
		FindAllWithContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest deployments: %w", err)
	}

	for i := 0; i < len(records)-1; i++ {
		for j := i + 1; j < len(records); j++ {
			if records[j].UpdatedAt > records[i].UpdatedAt {
				records[i], records[j] = records[j], records[i]
			}
		}
	}

	ids := slicex.Map(records, GetID)

	deployments := make([]Record, 0, len(ids))
	for _, id := range ids {
		record, err := d.Find(ctx, id)
		if err != nil {
			// Skip records that may have been deleted
			continue
		}
		deployments = append(deployments, record)
	}
	return deployments, nil
}

// GetID extracts the full deployment ID from a record.
func GetID(r Record) ID {
	return r.GetID()
}
