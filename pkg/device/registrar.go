package device

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oyolcinar/dus-notify/internal/models"
	"github.com/oyolcinar/dus-notify/pkg/cache"
	"github.com/oyolcinar/dus-notify/pkg/client"
)

// TokenAPI is the registrar-facing slice of the notification API.
type TokenAPI interface {
	RegisterDeviceToken(ctx context.Context, req models.RegisterDeviceTokenRequest) (*models.RegisterDeviceTokenResponse, error)
	ClearDeviceTokens(ctx context.Context) error
}

// ClearResult reports the best-effort token-clearing step explicitly
// instead of swallowing its error, so callers and tests can assert on it.
type ClearResult struct {
	Attempted bool
	Cleared   bool
	Err       error
}

// Result describes one registration pass.
type Result struct {
	Token      string
	Registered bool
	Clear      ClearResult
	// Advisory is set when push registration is unavailable in this
	// runtime. Non-fatal; the token is a local mock substitute.
	Advisory error
}

// Registrar drives the device-token lifecycle. When the device signature
// (platform + model + installation id) differs from the last registered
// one, or on a forced refresh, stale tokens are cleared server-side
// before the new one is registered. The ordering prevents the backend
// from fanning out pushes to a stale install.
type Registrar struct {
	api    TokenAPI
	source TokenSource
	cache  *cache.Cache
	caps   Capabilities
	info   models.DeviceInfo
}

// NewRegistrar wires the registrar. caps is the startup-time capability
// snapshot; info identifies the physical device.
func NewRegistrar(api TokenAPI, source TokenSource, c *cache.Cache, caps Capabilities, info models.DeviceInfo) *Registrar {
	return &Registrar{api: api, source: source, cache: c, caps: caps, info: info}
}

// Signature is the value compared across launches to detect a device or
// platform change.
func (r *Registrar) Signature() string {
	return r.info.Platform + "|" + r.info.Model + "|" + r.info.InstallationID
}

// Register performs one registration pass. With force false and an
// unchanged signature whose token is already registered, it returns the
// cached token without any network traffic.
func (r *Registrar) Register(ctx context.Context, force bool) (*Result, error) {
	sig := r.Signature()

	if !r.caps.CanRegisterPush {
		token, err := MockTokenSource{InstallationID: r.info.InstallationID}.Token(ctx)
		if err != nil {
			return nil, err
		}
		r.remember(token, sig)
		return &Result{
			Token:    token,
			Advisory: &client.PlatformCapabilityError{Reason: "push registration unavailable in this runtime"},
		}, nil
	}

	cachedSig, _ := r.cache.GetString(cache.KeyDeviceSignature)
	cachedToken, _ := r.cache.GetString(cache.KeyPushToken)

	token, err := r.source.Token(ctx)
	if err != nil {
		return nil, &client.PlatformCapabilityError{Reason: err.Error()}
	}

	if !force && cachedSig == sig && cachedToken == token {
		return &Result{Token: token}, nil
	}

	var clear ClearResult
	if force || (cachedSig != "" && cachedSig != sig) {
		clear.Attempted = true
		if err := r.api.ClearDeviceTokens(ctx); err != nil {
			clear.Err = err
			log.Printf("clearing stale device tokens failed: %v", err)
		} else {
			clear.Cleared = true
		}
	}

	_, err = r.api.RegisterDeviceToken(ctx, models.RegisterDeviceTokenRequest{
		DeviceToken: token,
		Platform:    r.info.Platform,
		DeviceInfo:  r.info,
	})
	if err != nil {
		return nil, fmt.Errorf("registering device token: %w", err)
	}

	r.remember(token, sig)
	return &Result{Token: token, Registered: true, Clear: clear}, nil
}

// remember caches the registered token and signature for the next launch.
// Cache failures are logged; the registration itself already succeeded.
func (r *Registrar) remember(token, sig string) {
	if err := r.cache.SetString(cache.KeyPushToken, token); err != nil {
		log.Printf("caching push token: %v", err)
	}
	if err := r.cache.SetString(cache.KeyDeviceSignature, sig); err != nil {
		log.Printf("caching device signature: %v", err)
	}
	if err := r.cache.SetString(cache.KeyPlatform, r.info.Platform); err != nil {
		log.Printf("caching platform: %v", err)
	}
	if err := r.cache.SetString(cache.KeyTokenRegisteredAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.Printf("caching registration time: %v", err)
	}
}

// CachedToken returns the last registered token, if any.
func (r *Registrar) CachedToken() (string, bool) {
	token, err := r.cache.GetString(cache.KeyPushToken)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}
