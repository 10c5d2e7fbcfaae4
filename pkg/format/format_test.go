package format

import "testing"

func TestCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{3800000, "3.800.000"},
		{1234567.49, "1.234.567"},
		{1234567.5, "1.234.568"},
		{-42000, "-42.000"},
	}
	for _, tc := range cases {
		if got := Currency(tc.in); got != tc.want {
			t.Fatalf("Currency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNumberWithDecimals(t *testing.T) {
	if got := Number(1234.56, 2); got != "1.234,56" {
		t.Fatalf("got %q", got)
	}
	if got := Number(-1234.5, 1); got != "-1.234,5" {
		t.Fatalf("got %q", got)
	}
	if got := Number(12, 0); got != "12" {
		t.Fatalf("got %q", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(19, 1); got != "19,0%" {
		t.Fatalf("got %q", got)
	}
	if got := Percent(7.25, 2); got != "7,25%" {
		t.Fatalf("got %q", got)
	}
	if got := Percent(19.6, 0); got != "20%" {
		t.Fatalf("got %q", got)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"3.800.000", 3800000},
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"1234", 1234},
		{"12,5", 12.5},
		{"12.5", 12.5},
		{"1,234", 1234},
		{"not a number", 0},
	}
	for _, tc := range cases {
		if got := Parse(tc.in); got != tc.want {
			t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseRoundTripsCurrency(t *testing.T) {
	for _, v := range []float64{0, 950, 42000, 3800000} {
		if got := Parse(Currency(v)); got != v {
			t.Fatalf("round trip of %v came back as %v", v, got)
		}
	}
}
