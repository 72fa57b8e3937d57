package sysex

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		name    string
		pattern []byte
		want    bool
	}{
		{"too short", []byte{0xF0, 0xF7}, false},
		{"missing start", []byte{0x00, 0x01, 0xF7}, false},
		{"missing end", []byte{0xF0, 0x01, 0x00}, false},
		{"literal interior too large", []byte{0xF0, 0x80, 0xF7}, false},
		{"wildcard interior ok", []byte{0xF0, 0xFF, 0x01, 0xF7}, true},
		{"all literal ok", []byte{0xF0, 0x43, 0x12, 0xF7}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Valid(c.pattern); got != c.want {
				t.Fatalf("Valid(%v) = %v, want %v", c.pattern, got, c.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	pattern := []byte{0xF0, 0x43, 0xFF, 0xF7}
	if !Matches([]byte{0xF0, 0x43, 0x7A, 0xF7}, pattern) {
		t.Fatal("expected wildcard byte to match anything")
	}
	if Matches([]byte{0xF0, 0x44, 0x7A, 0xF7}, pattern) {
		t.Fatal("expected literal byte mismatch to fail")
	}
	if Matches([]byte{0xF0, 0x43, 0xF7}, pattern) {
		t.Fatal("expected length mismatch to fail")
	}
}

func TestFormat(t *testing.T) {
	got := Format([]byte{0xF0, 0xFF, 0x0A, 0xF7})
	want := "F0 XX 0A F7"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}
