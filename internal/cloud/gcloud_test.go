package cloud

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g1c/g1c/internal/models"
)

const listJSON = `[
  {
    "id": "4417724017895695169",
    "name": "web-1",
    "status": "RUNNING",
    "machineType": "https://www.googleapis.com/compute/v1/projects/acme/zones/us-east1-b/machineTypes/e2-medium",
    "zone": "https://www.googleapis.com/compute/v1/projects/acme/zones/us-east1-b",
    "creationTimestamp": "2024-11-03T08:15:00-08:00",
    "labels": {"env": "prod"},
    "networkInterfaces": [
      {
        "networkIP": "10.142.0.2",
        "accessConfigs": [{"natIP": "34.23.88.101"}]
      }
    ]
  },
  {
    "id": "882211",
    "name": "batch-7",
    "status": "TERMINATED",
    "machineType": "https://www.googleapis.com/compute/v1/projects/acme/zones/us-east1-c/machineTypes/n2-standard-4",
    "zone": "https://www.googleapis.com/compute/v1/projects/acme/zones/us-east1-c",
    "creationTimestamp": "2024-01-20T12:00:00Z",
    "networkInterfaces": [{"networkIP": "10.142.0.9", "accessConfigs": []}]
  }
]`

func TestToInstance(t *testing.T) {
	var raw []gcloudInstance
	require.NoError(t, json.Unmarshal([]byte(listJSON), &raw))
	require.Len(t, raw, 2)

	now := time.Now()
	first := raw[0].toInstance("acme", now)
	assert.Equal(t, "4417724017895695169", first.ID)
	assert.Equal(t, "web-1", first.Name)
	assert.Equal(t, models.StatusRunning, first.Status)
	assert.Equal(t, "us-east1-b", first.Zone)
	assert.Equal(t, "e2-medium", first.MachineType)
	assert.Equal(t, "acme", first.Project)
	assert.Equal(t, "10.142.0.2", first.InternalIP)
	assert.Equal(t, "34.23.88.101", first.ExternalIP)
	assert.Equal(t, map[string]string{"env": "prod"}, first.Labels)
	assert.Equal(t, now, first.LastSeen)
	assert.Equal(t, 2024, first.Created.Year())

	second := raw[1].toInstance("acme", now)
	assert.Equal(t, models.StatusStopped, second.Status)
	assert.Equal(t, "10.142.0.9", second.InternalIP)
	assert.Empty(t, second.ExternalIP)
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "us-east1-b", lastSegment("https://compute/v1/projects/p/zones/us-east1-b"))
	assert.Equal(t, "us-east1-b", lastSegment("us-east1-b"))
	assert.Equal(t, "", lastSegment("trailing/"))
}

func TestMapStatus(t *testing.T) {
	cases := map[string]models.Status{
		"PROVISIONING": models.StatusProvisioning,
		"STAGING":      models.StatusProvisioning,
		"RUNNING":      models.StatusRunning,
		"STOPPING":     models.StatusStopping,
		"SUSPENDING":   models.StatusStopping,
		"TERMINATED":   models.StatusStopped,
		"SUSPENDED":    models.StatusStopped,
		"REPAIRING":    models.StatusUnknown,
		"":             models.StatusUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, mapStatus(in), "status %q", in)
	}
}

func TestClassifyStderr(t *testing.T) {
	cases := []struct {
		name   string
		stderr string
		want   ErrorKind
	}{
		{"reauth", "ERROR: (gcloud.compute.instances.list) There was a problem refreshing your current auth tokens: Reauthentication required.", KindUnauthenticated},
		{"login hint", "ERROR: You do not currently have an active account selected. Run `gcloud auth login`.", KindUnauthenticated},
		{"not found", "ERROR: (gcloud.compute.instances.stop) Could not fetch resource: The resource 'projects/acme/zones/us-east1-b/instances/web-1' was not found", KindNotFound},
		{"quota", "ERROR: Quota exceeded for quota metric 'Queries'", KindRateLimited},
		{"rate limit", "ERROR: rateLimitExceeded", KindRateLimited},
		{"permission", "ERROR: Permission denied on resource project acme", KindFatal},
		{"missing binary", `exec: "gcloud": executable file not found in $PATH`, KindFatal},
		{"network blip", "ERROR: Could not reach metadata server", KindTransient},
		{"empty", "", KindTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStderr(tc.stderr)
			require.NotNil(t, err)
			assert.Equal(t, tc.want, err.Kind)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestLifecycleUnknownID(t *testing.T) {
	g := NewGcloudCLI("acme", "", zerolog.Nop())
	err := g.Stop(context.Background(), "no-such-id")
	require.Error(t, err)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindNotFound, ce.Kind)
}
