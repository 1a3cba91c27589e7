package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type slowPinger struct{}

func (slowPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		db          Pinger
		buckets     Pinger
		wantStatus  Status
		wantDB      CheckResult
		wantBuckets CheckResult
	}{
		{"all healthy", &mockPinger{}, &mockPinger{}, Healthy, CheckOK, CheckOK},
		{"database down", &mockPinger{err: errors.New("conn refused")}, &mockPinger{}, Unhealthy, CheckError, CheckOK},
		{"buckets down", &mockPinger{}, &mockPinger{err: errors.New("timeout")}, Degraded, CheckOK, CheckError},
		{"both down", &mockPinger{err: errors.New("db")}, &mockPinger{err: errors.New("kv")}, Unhealthy, CheckError, CheckError},
		{"no bucket store", &mockPinger{}, nil, Healthy, CheckOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.db, tt.buckets).Check(context.Background())
			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Checks[ComponentDatabase] != tt.wantDB {
				t.Errorf("database = %q, want %q", r.Checks[ComponentDatabase], tt.wantDB)
			}
			if r.Checks[ComponentBuckets] != tt.wantBuckets {
				t.Errorf("buckets = %q, want %q", r.Checks[ComponentBuckets], tt.wantBuckets)
			}
		})
	}
}

func TestCheck_NoBucketStoreOmitsComponent(t *testing.T) {
	r := New(&mockPinger{}, nil).Check(context.Background())
	if _, ok := r.Checks[ComponentBuckets]; ok {
		t.Error("buckets should not be reported without a bucket store")
	}
}

func TestCheck_Timeout(t *testing.T) {
	svc := New(slowPinger{}, nil)
	svc.timeout = 10 * time.Millisecond

	start := time.Now()
	r := svc.Check(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("check should be bounded by its timeout")
	}
	if r.Status != Unhealthy {
		t.Errorf("status = %q, want %q", r.Status, Unhealthy)
	}
}
