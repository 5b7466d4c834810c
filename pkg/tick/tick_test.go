package tick

import "testing"

func TestParseUnitRoundTrip(t *testing.T) {
	cases := map[string]Unit{"ns": Nanos, "us": Micros, "ms": Millis, "s": Secs}
	for name, want := range cases {
		got, err := ParseUnit(name)
		if err != nil {
			t.Fatalf("ParseUnit(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseUnit(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseUnit("minutes"); err == nil {
		t.Fatalf("ParseUnit(minutes) = nil error, want error")
	}
}

func TestToNanos(t *testing.T) {
	if got := Micros.ToNanos(5); got != 5000 {
		t.Fatalf("Micros.ToNanos(5) = %d, want 5000", got)
	}
	if got := Millis.ToNanos(2); got != 2_000_000 {
		t.Fatalf("Millis.ToNanos(2) = %d, want 2000000", got)
	}
	if got := Secs.ToNanos(1); got != 1_000_000_000 {
		t.Fatalf("Secs.ToNanos(1) = %d, want 1e9", got)
	}
}

func TestIDRoundTrip(t *testing.T) {
	for _, u := range []Unit{Nanos, Micros, Millis, Secs} {
		if got := FromID(u.ID()); got != u {
			t.Fatalf("FromID(%v.ID()) = %v, want %v", u, got, u)
		}
	}
}
