package token_test

import (
	"testing"

	"github.com/geocoder89/homage/internal/domain/token"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantID    int64
		wantSec   string
		wantHasID bool
		wantOK    bool
	}{
		{name: "id_and_secret", in: "12|abc", wantID: 12, wantSec: "abc", wantHasID: true, wantOK: true},
		{name: "secret_keeps_later_separators", in: "3|a|b", wantID: 3, wantSec: "a|b", wantHasID: true, wantOK: true},
		{name: "bare_secret", in: "abcdef", wantSec: "abcdef", wantOK: true},
		{name: "empty", in: "  "},
		{name: "non_numeric_id", in: "x|abc"},
		{name: "zero_id", in: "0|abc"},
		{name: "empty_secret", in: "7|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, secret, hasID, ok := token.Split(tt.in)

			if ok != tt.wantOK || hasID != tt.wantHasID || id != tt.wantID || secret != tt.wantSec {
				t.Fatalf("Split(%q) = (%d, %q, %v, %v), want (%d, %q, %v, %v)",
					tt.in, id, secret, hasID, ok, tt.wantID, tt.wantSec, tt.wantHasID, tt.wantOK)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	id, secret, hasID, ok := token.Split(token.Format(42, "s3cret"))

	if !ok || !hasID || id != 42 || secret != "s3cret" {
		t.Fatalf("round trip failed: id=%d secret=%q hasID=%v ok=%v", id, secret, hasID, ok)
	}
}
