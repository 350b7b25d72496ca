package domain

import "testing"

func TestSearchOptionsNormalized(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero defaults", 0, DefaultSearchLimit},
		{"negative defaults", -3, DefaultSearchLimit},
		{"positive kept", 12, 12},
		{"one kept", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchOptions{Limit: tt.limit}.Normalized()
			if got.Limit != tt.want {
				t.Errorf("Normalized() limit = %d, want %d", got.Limit, tt.want)
			}
		})
	}
}
