package memory

import (
	"context"
	"testing"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
)

func TestListReturnsNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		if err := store.CreateOperationRecord(ctx, &domain.OperationRecord{ID: id}); err != nil {
			t.Fatalf("CreateOperationRecord failed: %v", err)
		}
	}

	records, err := store.ListOperationRecords(ctx, 2)
	if err != nil {
		t.Fatalf("ListOperationRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ID != "third" || records[1].ID != "second" {
		t.Errorf("Expected newest first, got %s, %s", records[0].ID, records[1].ID)
	}
}

func TestListCopiesRecords(t *testing.T) {
	store := New()
	ctx := context.Background()

	record := &domain.OperationRecord{ID: "rec", Status: domain.RecordSuccess}
	if err := store.CreateOperationRecord(ctx, record); err != nil {
		t.Fatalf("CreateOperationRecord failed: %v", err)
	}
	record.Status = "mutated"

	records, err := store.ListOperationRecords(ctx, 10)
	if err != nil {
		t.Fatalf("ListOperationRecords failed: %v", err)
	}
	if records[0].Status != domain.RecordSuccess {
		t.Errorf("Expected stored copy untouched, got %s", records[0].Status)
	}

	records[0].Status = "mutated again"
	again, _ := store.ListOperationRecords(ctx, 10)
	if again[0].Status != domain.RecordSuccess {
		t.Errorf("Expected listed copy isolated, got %s", again[0].Status)
	}
}
