// Package meraki wraps the Meraki dashboard REST API. Each client is
// bound to one organization's API key; the registry hands out one
// client per configured tenant.
package meraki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

// API defines the dashboard operations consumed by the locator,
// validator, and orchestrator.
type API interface {
	OrganizationID() string

	GetOrganization(ctx context.Context) (*domain.Organization, error)
	ListNetworks(ctx context.Context) ([]domain.Network, error)
	ListInventory(ctx context.Context) ([]domain.Device, error)
	GetDeviceStatuses(ctx context.Context) ([]domain.DeviceStatus, error)

	GetDevice(ctx context.Context, networkID, serial string) (*domain.Device, error)
	ClaimDevice(ctx context.Context, networkID, serial string) error
	UpdateDevice(ctx context.Context, networkID, serial string, update *domain.DeviceUpdate) error
	RemoveDevice(ctx context.Context, networkID, serial string) error

	GetRadioSettings(ctx context.Context, serial string) (domain.RadioSettings, error)
	UpdateRadioSettings(ctx context.Context, serial string, settings domain.RadioSettings) error
	ListSwitchPorts(ctx context.Context, serial string) ([]domain.SwitchPort, error)
	UpdateSwitchPort(ctx context.Context, serial, portID string, port domain.SwitchPort) error
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL string
	orgID   string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// Ensure Client implements API.
var _ API = (*Client)(nil)

// rateLimitRetries is how many 429 responses a single call absorbs
// before the error is surfaced.
const rateLimitRetries = 3

// New creates a dashboard client bound to one organization. The timeout
// applies to every request the client issues.
func New(baseURL, orgID, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		orgID:   orgID,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("organization", orgID).Logger(),
	}
}

// OrganizationID returns the organization this client is bound to.
func (c *Client) OrganizationID() string {
	return c.orgID
}

// GetOrganization fetches the bound organization's metadata.
func (c *Client) GetOrganization(ctx context.Context) (*domain.Organization, error) {
	var org domain.Organization
	if err := c.do(ctx, http.MethodGet, "/organizations/"+url.PathEscape(c.orgID), nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// ListNetworks fetches the organization's networks in platform order.
func (c *Client) ListNetworks(ctx context.Context) ([]domain.Network, error) {
	var networks []domain.Network
	if err := c.do(ctx, http.MethodGet, "/organizations/"+url.PathEscape(c.orgID)+"/networks", nil, &networks); err != nil {
		return nil, err
	}
	return networks, nil
}

// ListInventory fetches the organization's device inventory, claimed
// and unclaimed alike. Unclaimed devices have an empty networkId.
func (c *Client) ListInventory(ctx context.Context) ([]domain.Device, error) {
	var devices []domain.Device
	if err := c.do(ctx, http.MethodGet, "/organizations/"+url.PathEscape(c.orgID)+"/inventoryDevices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetDeviceStatuses fetches the organization-wide live status feed.
func (c *Client) GetDeviceStatuses(ctx context.Context) ([]domain.DeviceStatus, error) {
	var statuses []domain.DeviceStatus
	if err := c.do(ctx, http.MethodGet, "/organizations/"+url.PathEscape(c.orgID)+"/devices/statuses", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// GetDevice fetches one device by serial within a network. A 404 means
// the serial is not claimed in that network.
func (c *Client) GetDevice(ctx context.Context, networkID, serial string) (*domain.Device, error) {
	var device domain.Device
	path := "/networks/" + url.PathEscape(networkID) + "/devices/" + url.PathEscape(serial)
	if err := c.do(ctx, http.MethodGet, path, nil, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// ClaimDevice claims a serial into the target network.
func (c *Client) ClaimDevice(ctx context.Context, networkID, serial string) error {
	body := map[string][]string{"serials": {serial}}
	return c.do(ctx, http.MethodPost, "/networks/"+url.PathEscape(networkID)+"/devices/claim", body, nil)
}

// UpdateDevice applies a configuration payload to a claimed device.
func (c *Client) UpdateDevice(ctx context.Context, networkID, serial string, update *domain.DeviceUpdate) error {
	path := "/networks/" + url.PathEscape(networkID) + "/devices/" + url.PathEscape(serial)
	return c.do(ctx, http.MethodPut, path, update, nil)
}

// RemoveDevice removes a device from its network, returning it to the
// organization inventory.
func (c *Client) RemoveDevice(ctx context.Context, networkID, serial string) error {
	body := map[string]string{"serial": serial}
	return c.do(ctx, http.MethodPost, "/networks/"+url.PathEscape(networkID)+"/devices/remove", body, nil)
}

// GetRadioSettings fetches a device's wireless radio settings. Devices
// without a radio return 404.
func (c *Client) GetRadioSettings(ctx context.Context, serial string) (domain.RadioSettings, error) {
	var settings domain.RadioSettings
	path := "/devices/" + url.PathEscape(serial) + "/wireless/radio/settings"
	if err := c.do(ctx, http.MethodGet, path, nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateRadioSettings applies radio settings to a device.
func (c *Client) UpdateRadioSettings(ctx context.Context, serial string, settings domain.RadioSettings) error {
	path := "/devices/" + url.PathEscape(serial) + "/wireless/radio/settings"
	return c.do(ctx, http.MethodPut, path, settings, nil)
}

// ListSwitchPorts fetches a device's switch port configuration. Devices
// without switch ports return 404.
func (c *Client) ListSwitchPorts(ctx context.Context, serial string) ([]domain.SwitchPort, error) {
	var ports []domain.SwitchPort
	path := "/devices/" + url.PathEscape(serial) + "/switch/ports"
	if err := c.do(ctx, http.MethodGet, path, nil, &ports); err != nil {
		return nil, err
	}
	return ports, nil
}

// UpdateSwitchPort applies one port's configuration to a device.
func (c *Client) UpdateSwitchPort(ctx context.Context, serial, portID string, port domain.SwitchPort) error {
	path := "/devices/" + url.PathEscape(serial) + "/switch/ports/" + url.PathEscape(portID)
	return c.do(ctx, http.MethodPut, path, port, nil)
}

// do executes one dashboard request, retrying 429 responses with the
// dashboard's Retry-After hint. All other failures surface immediately.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	rateLimited := 0
	operation := func() (struct{}, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr := parseAPIError(resp)
			if rateLimited++; rateLimited > rateLimitRetries {
				return struct{}{}, backoff.Permanent(apiErr)
			}
			wait := retryAfter(resp)
			c.logger.Warn().Str("path", path).Dur("retry_after", wait).Msg("dashboard rate limit hit, retrying")
			return struct{}{}, &backoff.RetryAfterError{Duration: wait}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return struct{}{}, backoff.Permanent(parseAPIError(resp))
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return struct{}{}, backoff.Permanent(fmt.Errorf("decoding response from %s: %w", path, err))
			}
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation, backoff.WithBackOff(backoff.NewExponentialBackOff()))
	return err
}

// retryAfter reads the Retry-After hint from a 429 response.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}

// parseAPIError extracts the dashboard's error message. The dashboard
// reports errors as {"errors": ["..."]}.
func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Errors) > 0 {
		apiErr.Message = body.Errors[0]
	}
	return apiErr
}
