package util

import (
	"testing"
)

func TestParseAmount_Positive(t *testing.T) {
	testCases := []string{"0.01", "1", "100.5", "9999999.99"}

	for _, s := range testCases {
		if _, err := ParseAmount(s); err != nil {
			t.Errorf("ParseAmount(%q) error = %v, want nil", s, err)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	testCases := []string{"", "abc", "0", "-1", "-0.01", "10000000"}

	for _, s := range testCases {
		if _, err := ParseAmount(s); err == nil {
			t.Errorf("ParseAmount(%q) error = nil, want error", s)
		}
	}
}

func TestParseAmount_KeepsPrecision(t *testing.T) {
	d, err := ParseAmount("19.99")
	if err != nil {
		t.Fatalf("ParseAmount(19.99) error = %v", err)
	}
	if d.String() != "19.99" {
		t.Errorf("ParseAmount(19.99) = %s, want 19.99", d)
	}
}

func TestParseDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31T23:59:59",
		"2024-06-15T08:00:00+08:00",
	}

	for _, s := range testCases {
		if _, err := ParseDate(s); err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", s, err)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, s := range testCases {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", s)
		}
	}
}
