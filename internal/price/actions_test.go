package price

import "testing"

func TestParseVolumeSpan(t *testing.T) {
	tests := []struct {
		spec  string
		want  int
		valid bool
	}{
		{"5", 5, true},
		{"1-10", 10, true},
		{"3 - 7", 5, true},
		{"10-1", 0, false},
		{"0", 0, false},
		{"vol 5", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, err := parseVolumeSpan(tt.spec)
		if tt.valid != (err == nil) {
			t.Errorf("parseVolumeSpan(%q) err = %v, valid = %v", tt.spec, err, tt.valid)
			continue
		}
		if tt.valid && got != tt.want {
			t.Errorf("parseVolumeSpan(%q) = %d, want %d", tt.spec, got, tt.want)
		}
	}
}
