package uuid

import "testing"

func TestNew_VersionAndVariant(t *testing.T) {
	u := New()
	if u.IsNil() {
		t.Fatal("New returned the nil UUID")
	}
	if v := u[6] >> 4; v != 4 {
		t.Fatalf("expected version 4, got %d", v)
	}
	if u[8]&0xc0 != 0x80 {
		t.Fatalf("expected RFC 4122 variant, got byte %x", u[8])
	}
}

func TestParse_RoundTrip(t *testing.T) {
	u := New()
	parsed, err := Parse(u.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != u {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, u)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "not-a-uuid", "00000000-0000-0000-0000", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	u := New()
	data, err := u.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back UUID
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != u {
		t.Fatalf("json round trip mismatch: %s vs %s", back, u)
	}
}
