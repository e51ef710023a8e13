// Package deployer uploads synthesized templates and drives CloudFormation
// stack operations to completion.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"github.com/dbanksdesign/gen2/internal/constants"
	errs "github.com/dbanksdesign/gen2/internal/errors"
)

const pollInterval = 5 * time.Second

// Deployer performs synchronous, single-pass stack deployments. Any
// failure aborts the deployment; there are no retries.
type Deployer struct {
	cfClient *cloudformation.Client
	s3Client *s3.Client
	bucket   string
}

// Result describes a completed stack operation.
type Result struct {
	StackName string `json:"stack_name"`
	StackID   string `json:"stack_id"`
	Operation string `json:"operation"`
	Status    string `json:"status"`
}

// New creates a Deployer that stages assets in bucket.
func New(cfClient *cloudformation.Client, s3Client *s3.Client, bucket string) *Deployer {
	return &Deployer{
		cfClient: cfClient,
		s3Client: s3Client,
		bucket:   bucket,
	}
}

// UploadAssets stages the template and schema under the key prefix so the
// deployed artifacts remain inspectable after the fact.
func (d *Deployer) UploadAssets(ctx context.Context, prefix string, template []byte, schema string) error {
	prefix = strings.TrimRight(prefix, "/") + "/"

	objects := map[string][]byte{
		prefix + "cloudformation.template": template,
		prefix + "schema.graphql":          []byte(schema),
	}
	for key, body := range objects {
		_, err := d.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(d.bucket),
			Key:    aws.String(key),
			Body:   strings.NewReader(string(body)),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
	}
	return nil
}

// Deploy creates or updates the stack and returns once the operation has
// been accepted. A no-op update is reported as success.
func (d *Deployer) Deploy(ctx context.Context, stackName, template string, parameters []types.Parameter) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	exists, err := d.stackExists(ctx, stackName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if stack exists: %w", err)
	}

	var result *Result
	if exists {
		result, err = d.updateStack(ctx, stackName, template, parameters)
	} else {
		result, err = d.createStack(ctx, stackName, template, parameters)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("operation", result.Operation).
		Str("stack_name", stackName).
		Msg("Stack operation started")
	return result, nil
}

// Wait polls the stack until it reaches a terminal status. It surfaces the
// failing resource events when the operation fails.
func (d *Deployer) Wait(ctx context.Context, stackName string) (string, error) {
	logger := zerolog.Ctx(ctx)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		status, reason, err := d.stackStatus(ctx, stackName)
		if err != nil {
			return "", err
		}

		logger.Info().
			Str("stack_name", stackName).
			Str("status", status).
			Msg("Stack status")

		if isFailedStatus(types.StackStatus(status)) {
			d.logFailureEvents(ctx, stackName)
			if reason != "" {
				return status, fmt.Errorf("%w: %s: %s", errs.ErrStackOperationFailed, status, reason)
			}
			return status, fmt.Errorf("%w: %s", errs.ErrStackOperationFailed, status)
		}
		if isCompleteStatus(types.StackStatus(status)) {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// StackOutputs fetches the stack's output values keyed by output name.
func (d *Deployer) StackOutputs(ctx context.Context, stackName string) (map[string]string, error) {
	result, err := d.cfClient.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}
	if len(result.Stacks) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrStackNotFound, stackName)
	}

	outputs := make(map[string]string)
	for _, output := range result.Stacks[0].Outputs {
		if output.OutputKey != nil && output.OutputValue != nil {
			outputs[*output.OutputKey] = *output.OutputValue
		}
	}
	return outputs, nil
}

func (d *Deployer) stackExists(ctx context.Context, stackName string) (bool, error) {
	_, err := d.cfClient.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "ValidationError" || strings.Contains(apiErr.ErrorMessage(), "does not exist") {
				return false, nil
			}
		}
		return false, err
	}
	return true, nil
}

func (d *Deployer) createStack(ctx context.Context, stackName, template string, parameters []types.Parameter) (*Result, error) {
	result, err := d.cfClient.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:    aws.String(stackName),
		TemplateBody: aws.String(template),
		Parameters:   parameters,
		Capabilities: []types.Capability{
			types.CapabilityCapabilityIam,
			types.CapabilityCapabilityNamedIam,
		},
		Tags: []types.Tag{
			{
				Key:   aws.String("ManagedBy"),
				Value: aws.String(constants.ManagedByTag),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stack: %w", err)
	}

	return &Result{
		StackName: stackName,
		StackID:   aws.ToString(result.StackId),
		Operation: "CREATE",
	}, nil
}

func (d *Deployer) updateStack(ctx context.Context, stackName, template string, parameters []types.Parameter) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	result, err := d.cfClient.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:    aws.String(stackName),
		TemplateBody: aws.String(template),
		Parameters:   parameters,
		Capabilities: []types.Capability{
			types.CapabilityCapabilityIam,
			types.CapabilityCapabilityNamedIam,
		},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "ValidationError" &&
				strings.Contains(apiErr.ErrorMessage(), "No updates") {
				logger.Info().Str("stack_name", stackName).Msg("No updates needed for stack")
				return &Result{
					StackName: stackName,
					StackID:   stackName,
					Operation: "NOOP",
				}, nil
			}
		}
		return nil, fmt.Errorf("failed to update stack: %w", err)
	}

	return &Result{
		StackName: stackName,
		StackID:   aws.ToString(result.StackId),
		Operation: "UPDATE",
	}, nil
}

func (d *Deployer) stackStatus(ctx context.Context, stackName string) (status, reason string, err error) {
	result, err := d.cfClient.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}
	if len(result.Stacks) == 0 {
		return "", "", fmt.Errorf("%w: %s", errs.ErrStackNotFound, stackName)
	}

	stack := result.Stacks[0]
	return string(stack.StackStatus), aws.ToString(stack.StackStatusReason), nil
}

func (d *Deployer) logFailureEvents(ctx context.Context, stackName string) {
	logger := zerolog.Ctx(ctx)

	result, err := d.cfClient.DescribeStackEvents(ctx, &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get stack events")
		return
	}

	for i := range result.StackEvents {
		event := &result.StackEvents[i]
		if event.ResourceStatusReason == nil {
			continue
		}
		logger.Info().
			Str("resource_id", aws.ToString(event.LogicalResourceId)).
			Str("status", string(event.ResourceStatus)).
			Str("reason", *event.ResourceStatusReason).
			Msg("Stack event")
	}
}

func isFailedStatus(status types.StackStatus) bool {
	switch status {
	case types.StackStatusCreateFailed,
		types.StackStatusUpdateFailed,
		types.StackStatusDeleteFailed,
		types.StackStatusRollbackComplete,
		types.StackStatusRollbackFailed,
		types.StackStatusRollbackInProgress,
		types.StackStatusUpdateRollbackComplete,
		types.StackStatusUpdateRollbackFailed,
		types.StackStatusUpdateRollbackInProgress:
		return true
	default:
		return false
	}
}

func isCompleteStatus(status types.StackStatus) bool {
	switch status {
	case types.StackStatusCreateComplete,
		types.StackStatusUpdateComplete:
		return true
	default:
		return false
	}
}
