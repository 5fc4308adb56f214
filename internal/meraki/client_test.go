package meraki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "org1", "test-key", 5*time.Second, zerolog.Nop())
}

func TestGetDevice(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/networks/net1/devices/AAAA-1111-BBBB" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", got)
		}
		json.NewEncoder(w).Encode(domain.Device{
			Serial: "AAAA-1111-BBBB",
			Model:  "MR44",
			Name:   "lobby-ap",
			Tags:   []string{"wifi"},
		})
	}))

	device, err := client.GetDevice(context.Background(), "net1", "AAAA-1111-BBBB")
	if err != nil {
		t.Fatalf("GetDevice failed: %v", err)
	}
	if device.Name != "lobby-ap" || device.Model != "MR44" {
		t.Errorf("Unexpected device %+v", device)
	}
}

func TestNotFoundClassification(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":["Device not found"]}`))
	}))

	_, err := client.GetDevice(context.Background(), "net1", "AAAA-1111-BBBB")
	if !IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
	if IsForbidden(err) || IsRateLimited(err) {
		t.Error("Expected only not-found classification")
	}
}

func TestForbiddenClassification(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":["Invalid API key"]}`))
	}))

	_, err := client.GetOrganization(context.Background())
	if !IsForbidden(err) {
		t.Fatalf("Expected forbidden error, got %v", err)
	}
	if got := UserMessage(err); got != "access to the dashboard API was denied, check the organization API key" {
		t.Errorf("Unexpected user message %q", got)
	}
}

func TestRateLimitRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"errors":["Rate limit exceeded"]}`))
			return
		}
		json.NewEncoder(w).Encode(domain.Organization{ID: "org1", Name: "Acme"})
	}))

	org, err := client.GetOrganization(context.Background())
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if org.Name != "Acme" {
		t.Errorf("Unexpected organization %+v", org)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestRateLimitGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errors":["Rate limit exceeded"]}`))
	}))

	_, err := client.GetOrganization(context.Background())
	if !IsRateLimited(err) {
		t.Fatalf("Expected rate-limit error, got %v", err)
	}
	if got := UserMessage(err); got != "the dashboard API rate limit was exceeded, please retry shortly" {
		t.Errorf("Unexpected user message %q", got)
	}
	if got := calls.Load(); got != rateLimitRetries+1 {
		t.Errorf("Expected %d attempts, got %d", rateLimitRetries+1, got)
	}
}

func TestUpdateDeviceSendsPayload(t *testing.T) {
	var received domain.DeviceUpdate
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Expected PUT, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Decoding payload: %v", err)
		}
		w.Write([]byte(`{}`))
	}))

	name := "lobby-ap"
	err := client.UpdateDevice(context.Background(), "net1", "CCCC-2222-DDDD", &domain.DeviceUpdate{
		Name: &name,
		Tags: []string{"wifi"},
	})
	if err != nil {
		t.Fatalf("UpdateDevice failed: %v", err)
	}
	if received.Name == nil || *received.Name != "lobby-ap" {
		t.Errorf("Expected name in payload, got %+v", received)
	}
}

func TestClaimDeviceSendsSerials(t *testing.T) {
	var body struct {
		Serials []string `json:"serials"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/networks/net1/devices/claim" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Decoding payload: %v", err)
		}
		w.Write([]byte(`{}`))
	}))

	if err := client.ClaimDevice(context.Background(), "net1", "CCCC-2222-DDDD"); err != nil {
		t.Fatalf("ClaimDevice failed: %v", err)
	}
	if len(body.Serials) != 1 || body.Serials[0] != "CCCC-2222-DDDD" {
		t.Errorf("Expected single serial, got %v", body.Serials)
	}
}

func TestErrorMessagePassesThrough(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":["Device with serial X is already claimed into network Y"]}`))
	}))

	err := client.ClaimDevice(context.Background(), "net1", "CCCC-2222-DDDD")
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !IsAlreadyClaimed(err) {
		t.Errorf("Expected already-claimed classification, got %v", err)
	}
}
