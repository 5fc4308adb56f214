package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/meraki"
	"github.com/bcnelson/meraki-device-swap/internal/meraki/merakitest"
)

func fakeFactory(orgID, apiKey string) meraki.API {
	return merakitest.New(orgID, "Org "+orgID)
}

func TestLoadPreservesOrder(t *testing.T) {
	reg, err := Load("org3:key3,org1:key1,org2:key2", fakeFactory)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"org3", "org1", "org2"}
	if got := reg.OrganizationIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestLoadTrimsWhitespace(t *testing.T) {
	reg, err := Load(" org1 : key1 , org2:key2 ", fakeFactory)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(reg.Entries()) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(reg.Entries()))
	}
	if reg.Entries()[0].OrganizationID != "org1" {
		t.Errorf("Expected org1 first, got %s", reg.Entries()[0].OrganizationID)
	}
}

func TestLoadRejectsBadMappings(t *testing.T) {
	tests := []struct {
		name    string
		mapping string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing key", "org1"},
		{"empty key", "org1:"},
		{"empty org", ":key1"},
		{"duplicate org", "org1:key1,org1:key2"},
		{"only commas", ",,,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.mapping, fakeFactory)
			var cfgErr *domain.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Load(%q) expected ConfigurationError, got %v", tt.mapping, err)
			}
		})
	}
}

func TestClientFor(t *testing.T) {
	reg, err := Load("org1:key1,org2:key2", fakeFactory)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	client, err := reg.ClientFor("org2")
	if err != nil {
		t.Fatalf("ClientFor failed: %v", err)
	}
	if client.OrganizationID() != "org2" {
		t.Errorf("Expected client bound to org2, got %s", client.OrganizationID())
	}

	_, err = reg.ClientFor("missing")
	var unknownErr *domain.UnknownOrganizationError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected UnknownOrganizationError, got %v", err)
	}
	if unknownErr.OrganizationID != "missing" {
		t.Errorf("Expected missing in error, got %s", unknownErr.OrganizationID)
	}
}

func TestMaskedKey(t *testing.T) {
	reg, err := Load("org1:abcd1234efgh5678,org2:tiny", fakeFactory)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	masked, err := reg.MaskedKey("org1")
	if err != nil {
		t.Fatalf("MaskedKey failed: %v", err)
	}
	if masked != "abcd********5678" {
		t.Errorf("Expected abcd********5678, got %s", masked)
	}

	masked, err = reg.MaskedKey("org2")
	if err != nil {
		t.Fatalf("MaskedKey failed: %v", err)
	}
	if masked != "****" {
		t.Errorf("Expected ****, got %s", masked)
	}
}
