package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
)

func waitDone(t *testing.T, s *Shipper) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("shipper did not finish reading")
	}
}

func TestShipper_ShipsSourceAndFlushesOnStop(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "")

	src := &fakeSource{endErr: io.EOF}
	for i := 0; i < MaxBufferedRecords+5; i++ {
		src.records = append(src.records, record(i))
	}

	s := NewShipper(ShipperConfig{TickInterval: time.Hour}, h.emitter, src, h.logger)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("state = %v, want Running", s.State())
	}
	if err := s.Start(context.Background()); !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Errorf("second Start error = %v, want ErrAlreadyRunning", err)
	}

	waitDone(t, s)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	bulks := h.backend.Bulks()
	if len(bulks) != 2 {
		t.Fatalf("bulk writes = %d, want 2 (size flush + close flush)", len(bulks))
	}
	if s.State() != StateStopped {
		t.Errorf("state = %v, want Stopped", s.State())
	}
	if !src.Closed() {
		t.Error("source not closed")
	}
	if err := s.Stop(); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("second Stop error = %v, want ErrNotRunning", err)
	}
}

func TestShipper_TicksFlushStaleRecords(t *testing.T) {
	h := newHarness(t)
	h.emitter.config.Clock = time.Now
	h.enable(t, "")

	src := &fakeSource{records: []domain.Record{record(1)}}
	s := NewShipper(ShipperConfig{TickInterval: 10 * time.Millisecond}, h.emitter, src, h.logger)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.After(5 * time.Second)
	for len(h.backend.Bulks()) == 0 {
		select {
		case <-deadline:
			t.Fatal("tick never flushed the buffered record")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestShipper_SourceErrorCrashes(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "")

	boom := errors.New("disk gone")
	src := &fakeSource{endErr: boom}
	s := NewShipper(ShipperConfig{}, h.emitter, src, h.logger)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	waitDone(t, s)
	if err := s.Stop(); !errors.Is(err, boom) {
		t.Errorf("Stop error = %v, want %v", err, boom)
	}
	if s.State() != StateCrashed {
		t.Errorf("state = %v, want Crashed", s.State())
	}
}
