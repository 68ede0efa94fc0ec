package sim

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Errorf("Dt should be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		t.Errorf("Duration should be positive, got %f", cfg.Duration)
	}
	if cfg.SampleEvery != 1 {
		t.Errorf("SampleEvery = %d, want 1", cfg.SampleEvery)
	}
	if !cfg.ValidateState {
		t.Error("ValidateState should be enabled by default")
	}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSimError_Error(t *testing.T) {
	err := SimError{Time: 1.5, Step: 90, Message: "boom"}
	want := "step 90 (t=1.5000): boom"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{Dt: 0.1, Duration: 1}, true},
		{"zero dt", Config{Dt: 0, Duration: 1}, false},
		{"negative dt", Config{Dt: -0.1, Duration: 1}, false},
		{"zero duration", Config{Dt: 0.1, Duration: 0}, false},
		{"negative sample", Config{Dt: 0.1, Duration: 1, SampleEvery: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.cfg)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestStepCount(t *testing.T) {
	tests := []struct {
		dt, duration float64
		want         int
	}{
		{0.1, 1.0, 10},
		{1.0 / 60, 1.0, 60},
		{0.3, 1.0, 3},
		{2, 1, 0},
	}
	for _, tt := range tests {
		if got := stepCount(Config{Dt: tt.dt, Duration: tt.duration}); got != tt.want {
			t.Errorf("stepCount(%v, %v) = %d, want %d", tt.dt, tt.duration, got, tt.want)
		}
	}
}
