package formatting_test

import (
	"testing"

	"github.com/JaimeStill/courier/pkg/formatting"
)

const mb = 1024 * 1024

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"512B", 512, false},
		{"1KB", 1024, false},
		{"32MB", 32 * mb, false},
		{"2GB", 2 * 1024 * mb, false},
		{"10mb", 10 * mb, false},
		{"5Gb", 5 * 1024 * mb, false},
		{"100 MB", 100 * mb, false},
		{"  50MB  ", 50 * mb, false},
		{"1.5KB", 1536, false},
		{"0", 0, false},
		{"", 0, true},
		{"50XX", 0, true},
		{"MB", 0, true},
		{"-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{500, 0, "500 B"},
		{1024, 0, "1 KB"},
		{32 * mb, 0, "32 MB"},
		{1024 * mb, 0, "1 GB"},
		{1536 * 1024, 1, "1.5 MB"},
		{1024, -1, "1 KB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, n := range []int64{1024, 32 * mb, 1024 * mb, 1024 * 1024 * mb} {
		formatted := formatting.FormatBytes(n, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil {
			t.Fatalf("ParseBytes(%q): %v", formatted, err)
		}
		if parsed != n {
			t.Errorf("round trip %d -> %q -> %d", n, formatted, parsed)
		}
	}
}
