package cookies

import (
	"net/http"
	"testing"
)

func TestEncodeFiltersUnusableEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    int
	}{
		{
			name: "valid entries survive",
			entries: []Entry{
				{Key: "auth_token", Value: "abc123", Domain: ".x.com", Path: "/"},
				{Key: "ct0", Value: "csrf", Domain: ".x.com", Path: "/"},
			},
			want: 2,
		},
		{
			name: "missing name dropped",
			entries: []Entry{
				{Key: "", Value: "abc123"},
				{Key: "ct0", Value: "csrf"},
			},
			want: 1,
		},
		{
			name: "empty value dropped",
			entries: []Entry{
				{Key: "auth_token", Value: ""},
			},
			want: 0,
		},
		{
			name: "doubly quoted empty value dropped",
			entries: []Entry{
				{Key: "auth_token", Value: `""`},
			},
			want: 0,
		},
		{
			name:    "no entries",
			entries: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.entries)
			if len(got) != tt.want {
				t.Errorf("Encode() kept %d cookies, want %d", len(got), tt.want)
			}
		})
	}
}

func TestEncodeStripsOneQuoteLayer(t *testing.T) {
	entries := []Entry{{Key: "auth_token", Value: `"abc123"`}}
	got := Encode(entries)
	if len(got) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(got))
	}
	if got[0].Value != "abc123" {
		t.Errorf("expected unquoted value abc123, got %q", got[0].Value)
	}

	// Only one layer comes off.
	entries = []Entry{{Key: "k", Value: `""v""`}}
	got = Encode(entries)
	if got[0].Value != `"v"` {
		t.Errorf("expected single layer stripped, got %q", got[0].Value)
	}
}

func TestRoundTrip(t *testing.T) {
	entries := []Entry{
		{Key: "auth_token", Value: "abc123", Domain: ".x.com", Path: "/", Secure: true, HTTPOnly: true},
		{Key: "ct0", Value: "csrf-token", Domain: ".x.com", Path: "/", Secure: true},
		{Key: "guest_id", Value: "v1:175", Domain: ".x.com", Path: "/"},
	}

	decoded := Decode(Encode(entries))

	if len(decoded) != len(entries) {
		t.Fatalf("round trip lost entries: got %d, want %d", len(decoded), len(entries))
	}
	for i, e := range entries {
		if decoded[i] != e {
			t.Errorf("entry %d changed in round trip: got %+v, want %+v", i, decoded[i], e)
		}
	}
}

func TestDecodeFiltersNilAndEmpty(t *testing.T) {
	wire := []*http.Cookie{
		nil,
		{Name: "", Value: "x"},
		{Name: "ok", Value: "yes"},
	}
	got := Decode(wire)
	if len(got) != 1 || got[0].Key != "ok" {
		t.Errorf("expected single surviving entry, got %+v", got)
	}
}

func TestMarshalUnmarshalFileFormat(t *testing.T) {
	entries := []Entry{
		{Key: "auth_token", Value: "abc", Domain: ".x.com", Path: "/", Secure: true, HTTPOnly: true},
	}

	data, err := Marshal(entries)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(back) != 1 || back[0] != entries[0] {
		t.Errorf("file round trip mismatch: got %+v", back)
	}

	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("expected error for malformed file")
	}
}
