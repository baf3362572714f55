package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate("0 6 * * *"); err != nil {
		t.Fatalf("valid expression rejected: %v", err)
	}
	if err := Validate("every morning"); err == nil {
		t.Fatalf("expected error for invalid expression")
	}
}

func TestNextUsesLocation(t *testing.T) {
	t.Parallel()

	pkt := time.FixedZone("PKT", 5*60*60)
	s := NewCronScheduler("0 6 * * *", pkt)

	from := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC) // 07:00 PKT
	next, err := s.Next(from)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	want := time.Date(2024, 3, 11, 6, 0, 0, 0, pkt)
	if !next.Equal(want) {
		t.Fatalf("next = %s, want %s", next, want)
	}
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("nope", nil)
	if err := s.Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatalf("expected schedule error")
	}
}

func TestStartFiresAndStops(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("@every 1s", time.UTC)
	fired := make(chan time.Time, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(ts time.Time) {
		select {
		case fired <- ts:
		default:
		}
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not fire")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("second Stop should be a no-op: %v", err)
	}
}
