package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/mindc/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "DefaultMindPath",
			got:      domain.DefaultMindPath(),
			expected: ".mind",
		},
		{
			name:     "DefaultStorePath",
			got:      domain.DefaultStorePath(),
			expected: filepath.Join(".mind", "store"),
		},
		{
			name:     "DefaultSettingsPath",
			got:      domain.DefaultSettingsPath(),
			expected: filepath.Join(".mind", "config.toml"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}
