package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"-12.50", -1250, true},
		{"+3", 300, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	if got := (Money{Cents: 3000}).Sub(Money{Cents: 5000}); got.Cents != -2000 {
		t.Fatalf("Sub = %d", got.Cents)
	}
	if got := (Money{Cents: 100}).Add(Money{Cents: 23}); got.Cents != 123 {
		t.Fatalf("Add = %d", got.Cents)
	}
	if (Money{Cents: 123}).Dollars() != 1.23 {
		t.Fatalf("Dollars conversion")
	}
}
