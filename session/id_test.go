package session

import "testing"

func TestIDRoundTrip(t *testing.T) {
	id, err := NewID("FIX.4.4", "CLIENT", "BROKER")
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(id) {
		t.Fatalf("parse(id.String()) = %+v, want %+v", parsed, id)
	}

	if !id.Reversed().Reversed().Equal(id) {
		t.Fatalf("reversed().reversed() != id")
	}
}

func TestIDReversed(t *testing.T) {
	id, _ := NewID("FIX.4.4", "CLIENT", "BROKER")
	rev := id.Reversed()
	if rev.SenderCompID != "BROKER" || rev.TargetCompID != "CLIENT" {
		t.Fatalf("unexpected reversed id: %+v", rev)
	}
}

func TestParseIDMalformed(t *testing.T) {
	cases := []string{"", "no-colon-here", "FIX.4.4:nosep", "FIX.4.4:A->"}
	for _, c := range cases {
		if _, err := ParseID(c); err == nil {
			t.Errorf("ParseID(%q): expected error, got none", c)
		}
	}
}

func TestNewIDRejectsEmptyComponents(t *testing.T) {
	if _, err := NewID("", "A", "B"); err == nil {
		t.Error("expected error for empty BeginString")
	}
}
