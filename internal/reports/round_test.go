package reports

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		// Policy is half away from zero on the value's decimal
		// representation. Banker's rounding would give 10.00 and 0.12
		// for the first two cases; that is deliberately not the policy.
		{"half rounds up", 10.005, 10.01},
		{"half rounds up even neighbour", 0.125, 0.13},
		{"half rounds away negative", -10.005, -10.01},
		{"below half rounds down", 10.004, 10.00},
		{"above half rounds up", 10.006, 10.01},
		{"exact two decimals", 19.99, 19.99},
		{"integer", 42, 42},
		{"zero", 0, 0},
		{"long fraction", 33.333333, 33.33},
		{"carry propagates", 9.999, 10.00},
		{"negative carry", -9.995, -10.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round2(tt.in); got != tt.want {
				t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRound2NotBankers(t *testing.T) {
	// Explicit guard against silently switching to round-half-even.
	if got := Round2(10.005); got == 10.00 {
		t.Fatal("Round2(10.005) used banker's rounding; policy is half away from zero")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10.005, "10.01"},
		{20, "20.00"},
		{0.1, "0.10"},
		{-3.555, "-3.56"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundDecimalString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.0049", "10.00"},
		{"-0.005", "-0.01"},
		{"99.995", "100.00"},
		{"5", "5"},
		{"5.1", "5.1"},
		{"0.000", "0.00"},
	}

	for _, tt := range tests {
		if got := roundDecimalString(tt.in, 2); got != tt.want {
			t.Errorf("roundDecimalString(%q, 2) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
