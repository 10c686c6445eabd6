package tel

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in      string
		country string
		want    string
	}{
		{"+66812345678", "", "+66812345678"},
		{"0812345678", "TH", "+66812345678"},
		{"081-234-5678", "TH", "+66812345678"},
		{"+1 650 253 0000", "", "+16502530000"},
		{"650-253-0000", "US", "+16502530000"},
	}

	for _, tc := range cases {
		got, err := Normalize(tc.in, tc.country)
		if err != nil {
			t.Errorf("Normalize(%q, %q): unexpected error %v", tc.in, tc.country, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Normalize(%q, %q): expected %q, got %q", tc.in, tc.country, tc.want, got)
		}
	}
}

func TestNormalizeInvalid(t *testing.T) {
	for _, in := range []string{"", "not a number", "123"} {
		if _, err := Normalize(in, "TH"); err != ErrInvalidNumber {
			t.Errorf("Normalize(%q): expected ErrInvalidNumber, got %v", in, err)
		}
	}
}
