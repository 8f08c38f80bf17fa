// Package device manages this installation's push registration: runtime
// capability detection, the device signature used to spot hardware or
// platform changes, and the clear-then-register token lifecycle.
package device

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oyolcinar/dus-notify/pkg/cache"
)

// Capabilities describes what the current runtime can do. Constructed
// once at startup and passed into the registrar and the backend choice;
// nothing reads ambient environment state at call sites.
type Capabilities struct {
	CanRegisterPush  bool
	IsPhysicalDevice bool
}

// TokenSource issues the platform push token. The platform notification
// service is a black box behind this interface: a capability request that
// yields an opaque token or fails.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token. Useful in tests and for web
// runtimes where the token arrives out of band.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// MockTokenSource issues a deterministic per-installation token for
// runtimes without native push access, so the rest of the lifecycle runs
// unchanged in degraded mode.
type MockTokenSource struct {
	InstallationID string
}

func (m MockTokenSource) Token(ctx context.Context) (string, error) {
	return "mock-token-" + m.InstallationID, nil
}

// InstallationID returns the stable per-install identifier, creating and
// persisting one on first use.
func InstallationID(c *cache.Cache) (string, error) {
	if id, err := c.GetString(cache.KeyInstallationID); err == nil {
		return id, nil
	}
	id := uuid.NewString()
	if err := c.SetString(cache.KeyInstallationID, id); err != nil {
		return "", fmt.Errorf("persisting installation id: %w", err)
	}
	return id, nil
}
