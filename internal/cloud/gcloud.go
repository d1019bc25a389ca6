package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/g1c/g1c/internal/models"
)

// GcloudCLI drives the gcloud binary as a subprocess. Lifecycle calls need
// the instance's zone, so the adapter remembers id -> (name, zone) from the
// most recent successful list.
type GcloudCLI struct {
	project string
	region  string
	binary  string
	log     zerolog.Logger

	mu    sync.Mutex
	zones map[string]target
}

type target struct {
	name string
	zone string
}

// NewGcloudCLI creates an adapter bound to one project and optional region
// filter.
func NewGcloudCLI(project, region string, log zerolog.Logger) *GcloudCLI {
	return &GcloudCLI{
		project: project,
		region:  region,
		binary:  "gcloud",
		log:     log.With().Str("component", "gcloud").Logger(),
		zones:   make(map[string]target),
	}
}

func (g *GcloudCLI) Project() string { return g.project }
func (g *GcloudCLI) Region() string  { return g.region }

// gcloudInstance mirrors the JSON emitted by
// `gcloud compute instances list --format json`.
type gcloudInstance struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Status            string `json:"status"`
	MachineType       string `json:"machineType"`
	Zone              string `json:"zone"`
	CreationTimestamp string `json:"creationTimestamp"`
	Labels            map[string]string `json:"labels"`
	NetworkInterfaces []struct {
		NetworkIP     string `json:"networkIP"`
		AccessConfigs []struct {
			NatIP string `json:"natIP"`
		} `json:"accessConfigs"`
	} `json:"networkInterfaces"`
}

// List fetches the current instance set for the project.
func (g *GcloudCLI) List(ctx context.Context) ([]models.Instance, error) {
	args := []string{"compute", "instances", "list", "--project", g.project, "--format", "json"}
	if g.region != "" {
		args = append(args, "--filter", fmt.Sprintf("zone:%s-*", g.region))
	}

	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var raw []gcloudInstance
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, &Error{Kind: KindTransient, Message: "parsing instance list: " + err.Error()}
	}

	now := time.Now()
	instances := make([]models.Instance, 0, len(raw))
	targets := make(map[string]target, len(raw))
	for _, ri := range raw {
		inst := ri.toInstance(g.project, now)
		instances = append(instances, inst)
		targets[inst.ID] = target{name: inst.Name, zone: inst.Zone}
	}

	g.mu.Lock()
	g.zones = targets
	g.mu.Unlock()

	g.log.Debug().Int("count", len(instances)).Msg("listed instances")
	return instances, nil
}

func (ri gcloudInstance) toInstance(project string, seen time.Time) models.Instance {
	inst := models.Instance{
		ID:          ri.ID,
		Name:        ri.Name,
		Zone:        lastSegment(ri.Zone),
		Project:     project,
		Status:      mapStatus(ri.Status),
		MachineType: lastSegment(ri.MachineType),
		Labels:      ri.Labels,
		LastSeen:    seen,
	}
	if t, err := time.Parse(time.RFC3339, ri.CreationTimestamp); err == nil {
		inst.Created = t
	}
	for _, iface := range ri.NetworkInterfaces {
		if iface.NetworkIP != "" {
			inst.InternalIP = iface.NetworkIP
		}
		for _, ac := range iface.AccessConfigs {
			if ac.NatIP != "" {
				inst.ExternalIP = ac.NatIP
				break
			}
		}
	}
	return inst
}

// lastSegment trims gcloud's URL-style values (".../zones/us-east1-b") down
// to the final path element.
func lastSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func mapStatus(s string) models.Status {
	switch s {
	case "PROVISIONING", "STAGING":
		return models.StatusProvisioning
	case "RUNNING":
		return models.StatusRunning
	case "STOPPING", "SUSPENDING":
		return models.StatusStopping
	case "TERMINATED", "SUSPENDED", "STOPPED":
		return models.StatusStopped
	default:
		return models.StatusUnknown
	}
}

// Start powers on an instance.
func (g *GcloudCLI) Start(ctx context.Context, id string) error {
	return g.lifecycle(ctx, id, "start")
}

// Stop shuts an instance down.
func (g *GcloudCLI) Stop(ctx context.Context, id string) error {
	return g.lifecycle(ctx, id, "stop")
}

// Restart power-cycles an instance. gcloud calls this "reset".
func (g *GcloudCLI) Restart(ctx context.Context, id string) error {
	return g.lifecycle(ctx, id, "reset")
}

// Delete removes an instance. Server-side deletion is asynchronous; the
// caller must not treat a clean exit as confirmation that the instance is
// gone.
func (g *GcloudCLI) Delete(ctx context.Context, id string) error {
	return g.lifecycle(ctx, id, "delete")
}

func (g *GcloudCLI) lifecycle(ctx context.Context, id, verb string) error {
	g.mu.Lock()
	tgt, ok := g.zones[id]
	g.mu.Unlock()
	if !ok {
		return &Error{Kind: KindNotFound, Message: "unknown instance id " + id}
	}

	g.log.Info().Str("instance", tgt.name).Str("verb", verb).Msg("lifecycle call")
	_, err := g.run(ctx,
		"compute", "instances", verb, tgt.name,
		"--zone", tgt.zone,
		"--project", g.project,
		"--quiet",
	)
	return err
}

// Version returns the gcloud CLI version string for the status bar.
func (g *GcloudCLI) Version(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	if line, _, ok := bytes.Cut(out, []byte("\n")); ok {
		return strings.TrimSpace(string(line)), nil
	}
	return strings.TrimSpace(string(out)), nil
}

// CheckAuth verifies an active gcloud credential exists before the first
// poll, so auth problems fail startup with a clear message.
func (g *GcloudCLI) CheckAuth(ctx context.Context) error {
	out, err := g.run(ctx, "auth", "list", "--filter=status:ACTIVE", "--format", "value(account)")
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return &Error{Kind: KindUnauthenticated, Message: "no active gcloud account; run `gcloud auth login`"}
	}
	return nil
}

func (g *GcloudCLI) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, g.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Kind: KindTransient, Message: "gcloud call cancelled: " + ctx.Err().Error()}
		}
		return nil, classifyStderr(stderr.String())
	}
	return stdout.Bytes(), nil
}

// classifyStderr maps gcloud's stderr onto the error taxonomy.
func classifyStderr(stderr string) *Error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = "gcloud exited with an error"
	}
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "reauthentication required"),
		strings.Contains(lower, "credentials"),
		strings.Contains(lower, "gcloud auth login"),
		strings.Contains(lower, "unauthenticated"):
		return &Error{Kind: KindUnauthenticated, Message: msg}
	case strings.Contains(lower, "was not found"),
		strings.Contains(lower, "notfound"):
		return &Error{Kind: KindNotFound, Message: msg}
	case strings.Contains(lower, "quota exceeded"),
		strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "ratelimitexceeded"):
		return &Error{Kind: KindRateLimited, Message: msg}
	case strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "required 'compute"),
		strings.Contains(lower, "executable file not found"):
		return &Error{Kind: KindFatal, Message: msg}
	default:
		return &Error{Kind: KindTransient, Message: msg}
	}
}
