package models

import "testing"

func TestParsePennies(t *testing.T) {
	valid := []struct {
		in   string
		want Pennies
	}{
		{"2.40", 240},
		{"15.00", 1500},
		{"0.05", 5},
		{"0.00", 0},
		{"123.99", 12399},
	}

	for _, c := range valid {
		got := ParsePennies(c.in)
		if got == nil {
			t.Errorf("ParsePennies(%q) = nil, want %d", c.in, c.want)
			continue
		}
		if *got != c.want {
			t.Errorf("ParsePennies(%q) = %d, want %d", c.in, *got, c.want)
		}
	}

	// Anything outside <digits>.<two digits> is an absent amount, not an
	// error and not zero.
	absent := []string{"", "n/a", "2.4", "2.405", "-2.40", "£2.40", "2,40", "."}
	for _, in := range absent {
		if got := ParsePennies(in); got != nil {
			t.Errorf("ParsePennies(%q) = %d, want nil", in, *got)
		}
	}
}

func TestPenniesRoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "0.01", "0.99", "2.40", "15.00", "123.45", "999.99"} {
		p := ParsePennies(s)
		if p == nil {
			t.Fatalf("ParsePennies(%q) = nil", s)
		}
		if p.String() != s {
			t.Errorf("ParsePennies(%q).String() = %q, want %q", s, p.String(), s)
		}
	}
}

func TestPenniesPounds(t *testing.T) {
	p := Pennies(1200)
	if got := p.Pounds().StringFixed(2); got != "12.00" {
		t.Errorf("Pounds() = %s, want 12.00", got)
	}
}
