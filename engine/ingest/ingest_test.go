package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

// fakeIndexer records applied operations and can fail selectively.
type fakeIndexer struct {
	mu      sync.Mutex
	upserts []string
	deletes []string
	failIDs map[string]error
}

func (f *fakeIndexer) IndexUpsert(_ context.Context, rec domain.VehicleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failIDs[rec.ID]; err != nil {
		return err
	}
	f.upserts = append(f.upserts, rec.ID)
	return nil
}

func (f *fakeIndexer) IndexDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func record(id string) domain.VehicleRecord {
	return domain.VehicleRecord{ID: id, Make: "Toyota", Model: "Camry", Year: 2023, Price: 90000, Stock: 1}
}

func TestBulk_AllAccepted(t *testing.T) {
	ix := &fakeIndexer{}
	records := []domain.VehicleRecord{record("V001"), record("V002"), record("V003")}

	report := Bulk(context.Background(), ix, records, 2, nil)

	if report.Accepted != 3 {
		t.Errorf("accepted = %d", report.Accepted)
	}
	if len(report.Rejected) != 0 {
		t.Errorf("rejected = %v", report.Rejected)
	}
	if len(ix.upserts) != 3 {
		t.Errorf("indexer saw %d upserts", len(ix.upserts))
	}
}

func TestBulk_RejectsReported(t *testing.T) {
	ix := &fakeIndexer{}
	bad := record("V002")
	bad.Year = 1800
	records := []domain.VehicleRecord{record("V001"), bad, {ID: "", Make: "X", Model: "Y", Year: 2020}}

	report := Bulk(context.Background(), ix, records, 2, nil)

	if report.Accepted != 1 {
		t.Errorf("accepted = %d", report.Accepted)
	}
	if len(report.Rejected) != 2 {
		t.Fatalf("rejected = %d, want 2", len(report.Rejected))
	}
	// Every reject carries the record's ID and a reason.
	found := false
	for _, re := range report.Rejected {
		if re.Reason == "" {
			t.Errorf("reject %q without reason", re.ID)
		}
		if re.ID == "V002" {
			found = true
		}
	}
	if !found {
		t.Error("V002 missing from reject report")
	}
	// Invalid records must never reach the indexer.
	for _, id := range ix.upserts {
		if id == "V002" || id == "" {
			t.Errorf("invalid record %q reached the indexer", id)
		}
	}
}

func TestBulk_StoreFailureRejected(t *testing.T) {
	ix := &fakeIndexer{failIDs: map[string]error{"V002": errors.New("neo4j down")}}
	records := []domain.VehicleRecord{record("V001"), record("V002")}

	report := Bulk(context.Background(), ix, records, 1, nil)

	if report.Accepted != 1 || len(report.Rejected) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Rejected[0].ID != "V002" {
		t.Errorf("rejected id = %q", report.Rejected[0].ID)
	}
}

func TestValidateStage(t *testing.T) {
	res := Validate(context.Background(), record("V001"))
	if res.IsErr() {
		_, err := res.Unwrap()
		t.Fatalf("expected ok, got %v", err)
	}

	bad := record("V001")
	bad.Make = ""
	res = Validate(context.Background(), bad)
	if !res.IsErr() {
		t.Fatal("expected error for missing make")
	}
	_, err := res.Unwrap()
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Errorf("got %v, want ErrInvalidRecord", err)
	}
}
