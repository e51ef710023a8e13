// Package outputs publishes resolved backend outputs to Parameter Store
// and reads them back for client tooling.
package outputs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/dbanksdesign/gen2/internal/backend"
)

// ParameterStore publishes and fetches backend outputs under
// /amplify/{backend-id}/{branch}/.
type ParameterStore struct {
	client *ssm.Client

	mu    sync.RWMutex
	cache map[string]string
}

// NewParameterStore creates an SSM-backed output store.
func NewParameterStore(client *ssm.Client) *ParameterStore {
	return &ParameterStore{
		client: client,
		cache:  make(map[string]string),
	}
}

func parameterPath(id backend.Identifier) string {
	return fmt.Sprintf("/amplify/%s/%s", id.BackendID, id.BranchName())
}

// Publish writes resolved output values for a backend. Existing values are
// overwritten; a deploy always reflects the latest stack state.
func (s *ParameterStore) Publish(ctx context.Context, id backend.Identifier, values map[string]string) error {
	path := parameterPath(id)

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := path + "/" + key
		_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
			Name:      aws.String(name),
			Value:     aws.String(values[key]),
			Type:      types.ParameterTypeString,
			Overwrite: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("failed to put parameter %s: %w", name, err)
		}

		s.mu.Lock()
		s.cache[name] = values[key]
		s.mu.Unlock()
	}
	return nil
}

// Fetch reads all published outputs for a backend, keyed by output name.
func (s *ParameterStore) Fetch(ctx context.Context, id backend.Identifier) (map[string]string, error) {
	path := parameterPath(id)

	result, err := s.client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get parameters by path %s: %w", path, err)
	}

	values := make(map[string]string)
	s.mu.Lock()
	for _, param := range result.Parameters {
		if param.Name == nil || param.Value == nil {
			continue
		}
		key := strings.TrimPrefix(*param.Name, path+"/")
		values[key] = *param.Value
		s.cache[*param.Name] = *param.Value
	}
	s.mu.Unlock()

	return values, nil
}
