package storage_test

import (
	"errors"
	"testing"

	"vinpoint/pkg/storage"
)

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback int32
		want     int32
		wantErr  bool
	}{
		{name: "empty uses fallback", raw: "", fallback: 50, want: 50},
		{name: "empty caps fallback", raw: "", fallback: 10000, want: storage.MaxListCap},
		{name: "explicit value", raw: "25", fallback: 50, want: 25},
		{name: "explicit caps at limit", raw: "9999", fallback: 50, want: storage.MaxListCap},
		{name: "zero rejected", raw: "0", fallback: 50, wantErr: true},
		{name: "negative rejected", raw: "-5", fallback: 50, wantErr: true},
		{name: "non numeric rejected", raw: "lots", fallback: 50, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ParseMaxResults(tt.raw, tt.fallback)

			if tt.wantErr {
				if !errors.Is(err, storage.ErrInvalidMaxResults) {
					t.Errorf("ParseMaxResults(%q) err = %v, want ErrInvalidMaxResults", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMaxResults(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseMaxResults(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "UseDevelopmentStorage=true"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "vinpoint" {
		t.Errorf("ContainerName = %q, want vinpoint", cfg.ContainerName)
	}
	if cfg.MaxListSize != 50 {
		t.Errorf("MaxListSize = %d, want 50", cfg.MaxListSize)
	}
}

func TestConfigFinalizeCapsListSize(t *testing.T) {
	cfg := storage.Config{
		ConnectionString: "UseDevelopmentStorage=true",
		MaxListSize:      20000,
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.MaxListSize != storage.MaxListCap {
		t.Errorf("MaxListSize = %d, want cap %d", cfg.MaxListSize, storage.MaxListCap)
	}
}
