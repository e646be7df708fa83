package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings should validate: %v", err)
	}
	if s.Addr() != "127.0.0.1:7000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:7000", s.Addr())
	}
}

func TestSettingsValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"empty host", func(s *Settings) { s.Host = "" }},
		{"port zero", func(s *Settings) { s.Port = 0 }},
		{"port too large", func(s *Settings) { s.Port = 70000 }},
		{"negative layer", func(s *Settings) { s.Layer = -1 }},
		{"negative base slot", func(s *Settings) { s.BaseClipSlot = -2 }},
		{"negative clear slot", func(s *Settings) { s.ClearSlot = -1 }},
		{"negative rotation", func(s *Settings) { s.RotationCount = -1 }},
		{"auto-clear without delay", func(s *Settings) {
			s.AutoClearEnabled = true
			s.AutoClearDelay = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("error %v is not ErrInvalidSettings", err)
			}
		})
	}
}

func TestSettingsValidateFillsRotationCount(t *testing.T) {
	s := DefaultSettings()
	s.RotationCount = 0
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if s.RotationCount != 1 {
		t.Errorf("RotationCount = %d, want 1", s.RotationCount)
	}
}

func TestSameEndpoint(t *testing.T) {
	a := DefaultSettings()
	b := a
	if !a.SameEndpoint(b) {
		t.Error("identical settings should share endpoint")
	}
	b.Port = 7001
	if a.SameEndpoint(b) {
		t.Error("different port should not share endpoint")
	}
	b = a
	b.RotationCount = 5
	b.AutoClearDelay = time.Minute
	if !a.SameEndpoint(b) {
		t.Error("non-endpoint fields should not affect SameEndpoint")
	}
}

func TestDispatchErrorUnwrap(t *testing.T) {
	inner := ErrSendFailed
	err := &DispatchError{Step: StepTrigger, Slot: 5, Err: inner}
	if !errors.Is(err, ErrSendFailed) {
		t.Error("DispatchError should unwrap to ErrSendFailed")
	}
	if err.Step.String() != "trigger" {
		t.Errorf("Step.String() = %q, want trigger", err.Step.String())
	}
}
