package reconciler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"moneybook-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

type fakeEngine struct {
	calls   atomic.Int32
	results []models.Reconciliation
	err     error
}

func (f *fakeEngine) ReconcileAll(_ context.Context) ([]models.Reconciliation, error) {
	f.calls.Add(1)
	return f.results, f.err
}

func TestSweep_ReportsMismatches(t *testing.T) {
	engine := &fakeEngine{results: []models.Reconciliation{
		{AccountId: "a", Balanced: true},
		{AccountId: "b", Balance: decimal.NewFromInt(10), Expected: decimal.NewFromInt(5), Balanced: false},
	}}
	svc := NewService(engine, time.Minute)

	summary := svc.Sweep(context.Background())
	if summary.Checked != 2 {
		t.Errorf("Expected 2 checked, got %d", summary.Checked)
	}
	if len(summary.Mismatched) != 1 || summary.Mismatched[0].AccountId != "b" {
		t.Errorf("Expected account b mismatched, got %+v", summary.Mismatched)
	}

	last := svc.LastSummary()
	if last == nil || last.Checked != 2 {
		t.Errorf("Expected last summary to be recorded, got %+v", last)
	}
}

func TestSweep_Error(t *testing.T) {
	engine := &fakeEngine{err: errors.New("db down")}
	svc := NewService(engine, time.Minute)

	summary := svc.Sweep(context.Background())
	if summary.Err == nil {
		t.Error("Expected sweep error to be recorded")
	}
}

func TestSweep_PartialResults(t *testing.T) {
	engine := &fakeEngine{
		results: []models.Reconciliation{
			{AccountId: "b", Balance: decimal.NewFromInt(10), Expected: decimal.NewFromInt(5), Balanced: false},
		},
		err: errors.New("account a: db down"),
	}
	svc := NewService(engine, time.Minute)

	summary := svc.Sweep(context.Background())
	if summary.Err == nil {
		t.Error("Expected sweep error to be recorded")
	}
	if summary.Checked != 1 || len(summary.Mismatched) != 1 {
		t.Errorf("Expected the reconciled account kept alongside the error, got %+v", summary)
	}
}

func TestStartStop(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewService(engine, 10*time.Millisecond)

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for engine.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	svc.Stop()
	svc.Stop()

	if engine.calls.Load() < 2 {
		t.Errorf("Expected at least 2 sweeps, got %d", engine.calls.Load())
	}

	calls := engine.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if engine.calls.Load() != calls {
		t.Error("Expected no sweeps after Stop")
	}
}

func TestStart_RejectsNonPositiveInterval(t *testing.T) {
	svc := NewService(&fakeEngine{}, 0)
	if err := svc.Start(context.Background()); err == nil {
		t.Error("Expected error for zero interval")
	}
}
