package v1alpha1_test

import (
	"encoding/json"
	"testing"

	v1alpha1 "github.com/skypilot-org/sky-local/pkg/apis/local/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpRequestDefaults(t *testing.T) {
	t.Parallel()

	request := v1alpha1.UpRequest{Gpus: true}
	request.Default()

	assert.Equal(t, "skypilot", request.Name)
	assert.Equal(t, 1, request.NumNodes)
	assert.Nil(t, request.PortStart)
	assert.Empty(t, request.Path)
}

func TestUpRequestExplicitFieldsKept(t *testing.T) {
	t.Parallel()

	portStart := 40000
	request := v1alpha1.UpRequest{
		Name:      "test",
		PortStart: &portStart,
		Path:      "/usr/bin:/custom/bin",
		NumNodes:  3,
	}
	request.Default()

	assert.Equal(t, "test", request.Name)
	assert.Equal(t, 3, request.NumNodes)
	require.NotNil(t, request.PortStart)
	assert.Equal(t, 40000, *request.PortStart)
}

func TestUpRequestValidate(t *testing.T) {
	t.Parallel()

	request := v1alpha1.UpRequest{NumNodes: -1}

	err := request.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1")
}

func TestUpRequestSerialization(t *testing.T) {
	t.Parallel()

	portStart := 40000
	request := v1alpha1.UpRequest{
		Gpus:      true,
		Name:      "test",
		PortStart: &portStart,
		Path:      "/my/path",
	}

	data, err := json.Marshal(request)
	require.NoError(t, err)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["gpus"])
	assert.Equal(t, "test", decoded["name"])
	assert.InDelta(t, 40000, decoded["port_start"], 0)
	assert.Equal(t, "/my/path", decoded["path"])
}

func TestDownRequestDefaults(t *testing.T) {
	t.Parallel()

	request := v1alpha1.DownRequest{Path: "/usr/bin"}
	request.Default()

	assert.Equal(t, "skypilot", request.Name)
	assert.Equal(t, "/usr/bin", request.Path)
}
