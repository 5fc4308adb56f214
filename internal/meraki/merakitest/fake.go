// Package merakitest provides an in-memory dashboard fake for tests.
// One Fake stands in for one organization's bound client.
package merakitest

import (
	"context"
	"net/http"
	"sync"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/meraki"
)

// Fake is an in-memory implementation of meraki.API.
//
// Errors injects failures per operation: the key is either the bare
// operation name ("ClaimDevice") or operation plus first argument
// ("GetDevice:net1"). Every call is appended to Calls as
// "Op arg1 arg2" so tests can assert on query order and short-circuit
// behavior.
type Fake struct {
	mu sync.Mutex

	OrgID       string
	OrgName     string
	Unreachable bool

	Networks  []domain.Network
	Devices   map[string]map[string]*domain.Device // networkID -> serial -> device
	Inventory []domain.Device
	Statuses  []domain.DeviceStatus
	Radio     map[string]domain.RadioSettings
	Ports     map[string][]domain.SwitchPort

	Errors map[string]error
	Calls  []string

	AppliedUpdates map[string]*domain.DeviceUpdate
	AppliedRadio   map[string]domain.RadioSettings
	AppliedPorts   map[string][]string
	Removed        []string
}

// Ensure Fake implements meraki.API.
var _ meraki.API = (*Fake)(nil)

// New creates an empty fake organization.
func New(orgID, orgName string) *Fake {
	return &Fake{
		OrgID:          orgID,
		OrgName:        orgName,
		Devices:        make(map[string]map[string]*domain.Device),
		Radio:          make(map[string]domain.RadioSettings),
		Ports:          make(map[string][]domain.SwitchPort),
		Errors:         make(map[string]error),
		AppliedUpdates: make(map[string]*domain.DeviceUpdate),
		AppliedRadio:   make(map[string]domain.RadioSettings),
		AppliedPorts:   make(map[string][]string),
	}
}

// AddNetwork registers a network on the fake organization.
func (f *Fake) AddNetwork(id, name string) *Fake {
	f.Networks = append(f.Networks, domain.Network{ID: id, Name: name, OrganizationID: f.OrgID})
	return f
}

// AddDevice claims a device into a network on the fake.
func (f *Fake) AddDevice(networkID string, device domain.Device) *Fake {
	device.NetworkID = networkID
	if f.Devices[networkID] == nil {
		f.Devices[networkID] = make(map[string]*domain.Device)
	}
	f.Devices[networkID][device.Serial] = &device
	return f
}

// AddInventory adds a device to the organization inventory. An empty
// NetworkID means unclaimed.
func (f *Fake) AddInventory(device domain.Device) *Fake {
	f.Inventory = append(f.Inventory, device)
	return f
}

func notFound() error {
	return &meraki.APIError{StatusCode: http.StatusNotFound, Message: "Not found"}
}

func forbidden() error {
	return &meraki.APIError{StatusCode: http.StatusForbidden, Message: "Invalid API key"}
}

func (f *Fake) record(op string, args ...string) {
	call := op
	for _, a := range args {
		call += " " + a
	}
	f.Calls = append(f.Calls, call)
}

func (f *Fake) injected(op string, args ...string) error {
	if len(args) > 0 {
		if err, ok := f.Errors[op+":"+args[0]]; ok {
			return err
		}
	}
	return f.Errors[op]
}

func (f *Fake) OrganizationID() string { return f.OrgID }

func (f *Fake) GetOrganization(ctx context.Context) (*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetOrganization")
	if f.Unreachable {
		return nil, forbidden()
	}
	if err := f.injected("GetOrganization"); err != nil {
		return nil, err
	}
	return &domain.Organization{ID: f.OrgID, Name: f.OrgName}, nil
}

func (f *Fake) ListNetworks(ctx context.Context) ([]domain.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListNetworks")
	if f.Unreachable {
		return nil, forbidden()
	}
	if err := f.injected("ListNetworks"); err != nil {
		return nil, err
	}
	return append([]domain.Network(nil), f.Networks...), nil
}

func (f *Fake) ListInventory(ctx context.Context) ([]domain.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListInventory")
	if err := f.injected("ListInventory"); err != nil {
		return nil, err
	}
	return append([]domain.Device(nil), f.Inventory...), nil
}

func (f *Fake) GetDeviceStatuses(ctx context.Context) ([]domain.DeviceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetDeviceStatuses")
	if err := f.injected("GetDeviceStatuses"); err != nil {
		return nil, err
	}
	return append([]domain.DeviceStatus(nil), f.Statuses...), nil
}

func (f *Fake) GetDevice(ctx context.Context, networkID, serial string) (*domain.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetDevice", networkID, serial)
	if err := f.injected("GetDevice", networkID); err != nil {
		return nil, err
	}
	device, ok := f.Devices[networkID][serial]
	if !ok {
		return nil, notFound()
	}
	copied := *device
	return &copied, nil
}

func (f *Fake) ClaimDevice(ctx context.Context, networkID, serial string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClaimDevice", networkID, serial)
	if err := f.injected("ClaimDevice", networkID); err != nil {
		return err
	}

	claimed := domain.Device{Serial: serial}
	for i := range f.Inventory {
		if f.Inventory[i].Serial == serial {
			f.Inventory[i].NetworkID = networkID
			claimed = f.Inventory[i]
			break
		}
	}
	if f.Devices[networkID] == nil {
		f.Devices[networkID] = make(map[string]*domain.Device)
	}
	f.Devices[networkID][serial] = &claimed
	return nil
}

func (f *Fake) UpdateDevice(ctx context.Context, networkID, serial string, update *domain.DeviceUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateDevice", networkID, serial)
	if err := f.injected("UpdateDevice", networkID); err != nil {
		return err
	}

	device, ok := f.Devices[networkID][serial]
	if !ok {
		return notFound()
	}
	if update.Name != nil {
		device.Name = *update.Name
	}
	if update.Tags != nil {
		device.Tags = update.Tags
	}
	if update.Address != nil {
		device.Address = *update.Address
	}
	if update.Lat != nil {
		device.Lat = update.Lat
	}
	if update.Lng != nil {
		device.Lng = update.Lng
	}
	if update.FloorPlanID != nil {
		device.FloorPlanID = *update.FloorPlanID
	}
	if update.Notes != nil {
		device.Notes = *update.Notes
	}
	f.AppliedUpdates[serial] = update
	return nil
}

func (f *Fake) RemoveDevice(ctx context.Context, networkID, serial string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RemoveDevice", networkID, serial)
	if err := f.injected("RemoveDevice", networkID); err != nil {
		return err
	}
	if _, ok := f.Devices[networkID][serial]; !ok {
		return notFound()
	}
	delete(f.Devices[networkID], serial)
	for i := range f.Inventory {
		if f.Inventory[i].Serial == serial {
			f.Inventory[i].NetworkID = ""
		}
	}
	f.Removed = append(f.Removed, serial)
	return nil
}

func (f *Fake) GetRadioSettings(ctx context.Context, serial string) (domain.RadioSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetRadioSettings", serial)
	if err := f.injected("GetRadioSettings", serial); err != nil {
		return nil, err
	}
	settings, ok := f.Radio[serial]
	if !ok {
		return nil, notFound()
	}
	return settings, nil
}

func (f *Fake) UpdateRadioSettings(ctx context.Context, serial string, settings domain.RadioSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateRadioSettings", serial)
	if err := f.injected("UpdateRadioSettings", serial); err != nil {
		return err
	}
	f.AppliedRadio[serial] = settings
	return nil
}

func (f *Fake) ListSwitchPorts(ctx context.Context, serial string) ([]domain.SwitchPort, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListSwitchPorts", serial)
	if err := f.injected("ListSwitchPorts", serial); err != nil {
		return nil, err
	}
	ports, ok := f.Ports[serial]
	if !ok {
		return nil, notFound()
	}
	return append([]domain.SwitchPort(nil), ports...), nil
}

func (f *Fake) UpdateSwitchPort(ctx context.Context, serial, portID string, port domain.SwitchPort) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateSwitchPort", serial, portID)
	if err := f.injected("UpdateSwitchPort", serial); err != nil {
		return err
	}
	f.AppliedPorts[serial] = append(f.AppliedPorts[serial], portID)
	return nil
}

// CallCount returns how many recorded calls start with the given
// operation name.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, call := range f.Calls {
		if call == op || (len(call) > len(op) && call[:len(op)+1] == op+" ") {
			n++
		}
	}
	return n
}
