package watch

import (
	"strings"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing endpoints",
			cfg:     Config{Key: "threatlink/taxonomy/path"},
			wantErr: "endpoints cannot be empty",
		},
		{
			name:    "missing key",
			cfg:     Config{Endpoints: []string{"localhost:2379"}},
			wantErr: "key cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
