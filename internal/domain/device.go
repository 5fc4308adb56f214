package domain

import "strconv"

// Organization is a dashboard tenant. One registry entry exists per
// configured organization; entries are immutable after startup.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// OrganizationSummary is the per-tenant view returned by the discovery
// endpoints. Accessibility and network count are derived per request,
// never stored.
type OrganizationSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Accessible   bool   `json:"accessible"`
	NetworkCount int    `json:"networkCount"`
	APIKey       string `json:"apiKey,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Network is a deployment unit within an organization. Fetched per
// request and never cached.
type Network struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OrganizationID string `json:"organizationId"`
}

// Device is a dashboard device. An empty NetworkID means the device is
// unclaimed and sits in the organization's inventory.
type Device struct {
	Serial         string   `json:"serial"`
	Model          string   `json:"model,omitempty"`
	Name           string   `json:"name,omitempty"`
	MAC            string   `json:"mac,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Address        string   `json:"address,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
	FloorPlanID    string   `json:"floorPlanId,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	NetworkID      string   `json:"networkId,omitempty"`
	OrganizationID string   `json:"organizationId,omitempty"`

	// Live status, filled in on a best-effort basis during validation.
	Status   string `json:"status,omitempty"`
	LanIP    string `json:"lanIp,omitempty"`
	PublicIP string `json:"publicIp,omitempty"`
}

// DeviceStatus is one entry of the organization-wide status feed.
type DeviceStatus struct {
	Serial   string `json:"serial"`
	Name     string `json:"name,omitempty"`
	Status   string `json:"status"`
	LanIP    string `json:"lanIp,omitempty"`
	PublicIP string `json:"publicIp,omitempty"`
}

// DeviceUpdate is the payload applied to the replacement device. Nil
// fields are omitted so the dashboard leaves them untouched.
type DeviceUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	FloorPlanID   *string  `json:"floorPlanId,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	MoveMapMarker *bool    `json:"moveMapMarker,omitempty"`
}

// RadioSettings is a device's wireless radio configuration. The shape
// is capability-dependent, so it is carried opaquely and applied back
// verbatim.
type RadioSettings map[string]any

// SwitchPort is one port's configuration blob, carried opaquely.
type SwitchPort map[string]any

// PortID returns the port identifier used in the per-port update path.
func (p SwitchPort) PortID() string {
	switch id := p["portId"].(type) {
	case string:
		return id
	case float64:
		// some firmware versions return numeric port ids
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
