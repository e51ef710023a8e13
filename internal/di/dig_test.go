package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvidesEnv(t *testing.T) {
	container, err := New("dev")
	require.NoError(t, err)

	var env string
	require.NoError(t, container.Invoke(func(got string) { env = got }))
	assert.Equal(t, "dev", env)
}

func TestNewProvidesOptions(t *testing.T) {
	container, err := New("dev",
		WithDeploymentBucket("my-bucket"),
		WithDeploymentsTable("my-table"),
	)
	require.NoError(t, err)

	var bucket DeploymentBucket
	var table DeploymentsTable
	require.NoError(t, container.Invoke(func(b DeploymentBucket, tbl DeploymentsTable) {
		bucket = b
		table = tbl
	}))
	assert.Equal(t, DeploymentBucket("my-bucket"), bucket)
	assert.Equal(t, DeploymentsTable("my-table"), table)
}

type testService struct {
	env string
}

func TestWithProviders(t *testing.T) {
	container, err := New("prod", WithProviders(func(env string) *testService {
		return &testService{env: env}
	}))
	require.NoError(t, err)

	service := MustGet[*testService](container)
	require.NotNil(t, service)
	assert.Equal(t, "prod", service.env)
}

func TestMustGetSingleton(t *testing.T) {
	container, err := New("dev", WithProviders(func() *testService {
		return &testService{}
	}))
	require.NoError(t, err)

	first := MustGet[*testService](container)
	second := MustGet[*testService](container)
	assert.Same(t, first, second)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	container, err := New("dev")
	require.NoError(t, err)

	type unregistered struct{}
	assert.Panics(t, func() {
		MustGet[*unregistered](container)
	})
}
