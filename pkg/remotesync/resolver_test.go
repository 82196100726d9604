package remotesync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/skypilot-org/sky-local/pkg/remotesync"
	"github.com/skypilot-org/sky-local/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStatusClient returns a fixed record set for every lookup.
type fakeStatusClient struct {
	records []status.ClusterRecord
	err     error
}

func (f *fakeStatusClient) GetClusterRecords(
	_ context.Context,
	_ string,
) ([]status.ClusterRecord, error) {
	return f.records, f.err
}

func TestExtractCluster(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		source      string
		destination string
		expected    string
	}{
		{
			name:        "source has cluster",
			source:      "my-cluster:~/file.txt",
			destination: "./",
			expected:    "my-cluster",
		},
		{
			name:        "destination has cluster",
			source:      "./local/",
			destination: "my-cluster:~/remote/",
			expected:    "my-cluster",
		},
		{
			name:        "no cluster",
			source:      "./local/",
			destination: "./other/",
			expected:    "",
		},
		{
			name:        "cluster path with further colons",
			source:      "my-cluster:/home/user/data",
			destination: "./",
			expected:    "my-cluster",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := remotesync.ExtractCluster(testCase.source, testCase.destination)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestExtractClusterBothRemote(t *testing.T) {
	t.Parallel()

	_, err := remotesync.ExtractCluster("cluster-a:~/src", "cluster-b:~/dst")
	require.Error(t, err)
	assert.True(t, errors.Is(err, remotesync.ErrRemoteToRemote))
	assert.Contains(t, err.Error(), "Remote-to-remote")
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	target, remote := remotesync.ParseTarget("my-cluster:/home/user:with:colons")
	require.True(t, remote)
	assert.Equal(t, "my-cluster", target.Cluster)
	assert.Equal(t, "/home/user:with:colons", target.Path)

	_, remote = remotesync.ParseTarget("./plain/path")
	assert.False(t, remote)
}

func TestResolveNoClusterPrefix(t *testing.T) {
	t.Parallel()

	resolver := remotesync.NewResolver(&fakeStatusClient{})

	_, err := resolver.Resolve(context.Background(), "./a", "./b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, remotesync.ErrNoClusterPrefix))
	assert.Contains(t, err.Error(), "must contain a cluster prefix")
}

func TestResolveClusterNotFound(t *testing.T) {
	t.Parallel()

	resolver := remotesync.NewResolver(&fakeStatusClient{})

	_, err := resolver.Resolve(context.Background(), "my-cluster:~/file.txt", "./")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrClusterNotFound))
	assert.Contains(t, err.Error(), "not found")
}

func TestResolveClusterNotUp(t *testing.T) {
	t.Parallel()

	client := &fakeStatusClient{
		records: []status.ClusterRecord{{Name: "my-cluster"}},
	}
	resolver := remotesync.NewResolver(client)

	_, err := resolver.Resolve(context.Background(), "my-cluster:~/file.txt", "./")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrClusterNotUp))
	assert.Contains(t, err.Error(), "not UP")
}

func TestResolveRewritesRemoteArgument(t *testing.T) {
	t.Parallel()

	client := &fakeStatusClient{
		records: []status.ClusterRecord{{
			Name:   "my-cluster",
			Handle: status.Handle{CachedExternalIPs: []string{"1.2.3.4", "5.6.7.8"}},
		}},
	}
	resolver := remotesync.NewResolver(client)

	tests := []struct {
		name                string
		source              string
		destination         string
		expectedSource      string
		expectedDestination string
	}{
		{
			name:                "download",
			source:              "my-cluster:~/file.txt",
			destination:         "./",
			expectedSource:      "1.2.3.4:~/file.txt",
			expectedDestination: "./",
		},
		{
			name:                "upload",
			source:              "./local/dir/",
			destination:         "my-cluster:~/remote/",
			expectedSource:      "./local/dir/",
			expectedDestination: "1.2.3.4:~/remote/",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			invocation, err := resolver.Resolve(
				context.Background(),
				testCase.source,
				testCase.destination,
			)
			require.NoError(t, err)
			assert.Equal(t, "my-cluster", invocation.Cluster)
			assert.Equal(t, testCase.expectedSource, invocation.Source)
			assert.Equal(t, testCase.expectedDestination, invocation.Destination)
		})
	}
}

func TestResolveLookupError(t *testing.T) {
	t.Parallel()

	lookupErr := errors.New("backend unavailable")
	resolver := remotesync.NewResolver(&fakeStatusClient{err: lookupErr})

	_, err := resolver.Resolve(context.Background(), "my-cluster:~/f", "./")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lookupErr))
}
