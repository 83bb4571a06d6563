package encrust

import (
	"testing"
)

var digestSuites = []DigestSuite{DigestXXH64, DigestBLAKE2b}

func TestDigestEquality(t *testing.T) {
	for _, suite := range digestSuites {
		t.Run(suite.String(), func(t *testing.T) {
			const seed = 0xabcdef

			ci := suite.SumCaseInsensitive([]byte("Password"), seed)
			for _, s := range []string{"PASSWORD", "password", "pAsSwOrD"} {
				if got := suite.SumCaseInsensitive([]byte(s), seed); got != ci {
					t.Errorf("case-insensitive digest of %q = %#x, want %#x", s, got, ci)
				}
			}

			if suite.Sum([]byte("Password"), seed) == suite.Sum([]byte("password"), seed) {
				t.Error("case-sensitive digests of Password and password are equal")
			}

			// Folding the input by hand gives the same digest
			if suite.Sum([]byte("password"), seed) != ci {
				t.Error("case-insensitive digest differs from digest of lower-cased input")
			}

			if suite.Sum([]byte("Password"), seed) == suite.Sum([]byte("Password"), seed+1) {
				t.Error("digest does not depend on the seed")
			}
		})
	}
}

func TestDigestDefaults(t *testing.T) {
	data := []byte("default suite")
	if Digest(data, 3) != DigestXXH64.Sum(data, 3) {
		t.Error("Digest does not use the default suite")
	}
	if DigestCaseInsensitive(data, 3) != DigestXXH64.SumCaseInsensitive(data, 3) {
		t.Error("DigestCaseInsensitive does not use the default suite")
	}
}

func TestDigestFoldsAcrossChunks(t *testing.T) {
	// Longer than the folding buffer, with letters on both sides of a boundary
	upper := make([]byte, 3*foldChunk+5)
	lower := make([]byte, len(upper))
	for i := range upper {
		upper[i] = 'A' + byte(i%26)
		lower[i] = 'a' + byte(i%26)
	}

	for _, suite := range digestSuites {
		if suite.SumCaseInsensitive(upper, 1) != suite.Sum(lower, 1) {
			t.Errorf("%s: chunked folding changed the digest", suite)
		}
	}
}

func TestFoldASCIIOnly(t *testing.T) {
	src := []byte("ÄbC-Z@[`{é")
	dst := make([]byte, len(src))
	n := foldASCII(dst, src)

	if n != len(src) {
		t.Fatalf("folded %d bytes, want %d", n, len(src))
	}
	if string(dst) != "Äbc-z@[`{é" {
		t.Errorf("foldASCII = %q", dst)
	}
}

func TestHashstring(t *testing.T) {
	for _, suite := range digestSuites {
		t.Run(suite.String(), func(t *testing.T) {
			sensitive := NewHashstringWithSuite(suite, "A string😶", 0xabcdef, CaseSensitive)
			insensitive := NewHashstringWithSuite(suite, "A string😶", 0xfedcba, CaseInsensitive)

			if !sensitive.Matches("A string😶") {
				t.Error("case-sensitive hash does not match its input")
			}
			if sensitive.Matches("a string😶") {
				t.Error("case-sensitive hash matches a different case")
			}
			if !insensitive.Matches("A string😶") || !insensitive.Matches("a string😶") {
				t.Error("case-insensitive hash does not match")
			}
			if insensitive.Matches("a string") {
				t.Error("case-insensitive hash matches a different string")
			}
			if !sensitive.MatchesBytes([]byte("A string😶")) {
				t.Error("MatchesBytes does not match")
			}

			if sensitive.Len() != len("A string😶") {
				t.Errorf("Len() = %d", sensitive.Len())
			}
			if sensitive.Suite() != suite || sensitive.Seed() != 0xabcdef {
				t.Error("accessors do not report construction parameters")
			}
			if insensitive.Sensitivity() != CaseInsensitive {
				t.Error("Sensitivity() does not report CaseInsensitive")
			}
		})
	}
}

func TestHashstringScenario(t *testing.T) {
	// Digest computed ahead of time, plaintext discarded
	const seed = 0x5eed
	value := NewHashstring("secret", seed, CaseSensitive).RawValue()
	valueCI := NewHashstring("secret", seed, CaseInsensitive).RawValue()

	sensitive := HashstringFromRaw(DigestXXH64, value, seed, 6, CaseSensitive)
	insensitive := HashstringFromRaw(DigestXXH64, valueCI, seed, 6, CaseInsensitive)

	input := string([]byte{'s', 'e', 'c', 'r', 'e', 't'})
	if !sensitive.Matches(input) {
		t.Error("secret does not match")
	}
	if sensitive.Matches("Secret") {
		t.Error("Secret matches the case-sensitive hash")
	}
	if !insensitive.Matches("Secret") {
		t.Error("Secret does not match the case-insensitive hash")
	}
}

func TestHashstringIndex(t *testing.T) {
	h := NewHashstring("needle", 99, CaseInsensitive)

	tests := []struct {
		haystack string
		want     int
	}{
		{"needle", 0},
		{"a NEEDLE in a haystack", 2},
		{"hay hay hay Needle", 12},
		{"no match here", -1},
		{"need", -1},
		{"", -1},
	}

	for _, tt := range tests {
		if got := h.Index(tt.haystack); got != tt.want {
			t.Errorf("Index(%q) = %d, want %d", tt.haystack, got, tt.want)
		}
	}
}

func TestHashbytes(t *testing.T) {
	for _, suite := range digestSuites {
		t.Run(suite.String(), func(t *testing.T) {
			h := NewHashbytesWithSuite(suite, []byte{0, 1, 2, 3, 4, 5}, 0xc0ffee)

			if !h.Matches([]byte{0, 1, 2, 3, 4, 5}) {
				t.Error("hash does not match its input")
			}
			if h.Matches([]byte{4, 5, 6}) {
				t.Error("hash matches a different input")
			}

			raw := HashbytesFromRaw(suite, h.RawValue(), h.Seed(), h.Len())
			if !raw.Matches([]byte{0, 1, 2, 3, 4, 5}) {
				t.Error("rebuilt hash does not match")
			}

			if got := h.Index([]byte{9, 9, 0, 1, 2, 3, 4, 5, 9}); got != 2 {
				t.Errorf("Index = %d, want 2", got)
			}
			if got := h.Index([]byte{0, 1, 2}); got != -1 {
				t.Errorf("Index = %d, want -1", got)
			}
		})
	}

	if NewHashbytes([]byte("x"), 1).Suite() != DigestXXH64 {
		t.Error("NewHashbytes does not use the default suite")
	}
}

func TestEmptyInputs(t *testing.T) {
	h := NewHashstring("", 1, CaseSensitive)
	if !h.Matches("") {
		t.Error("empty hash does not match empty input")
	}
	if h.Index("abc") != 0 {
		t.Error("empty pattern should match at offset 0")
	}
}

func TestNegativeLengthNeverMatches(t *testing.T) {
	hs := HashstringFromRaw(DigestXXH64, 0, 1, -3, CaseSensitive)
	if got := hs.Index("haystack"); got != -1 {
		t.Errorf("Hashstring.Index = %d, want -1", got)
	}

	hb := HashbytesFromRaw(DigestXXH64, 0, 1, -1)
	if got := hb.Index([]byte{1, 2, 3}); got != -1 {
		t.Errorf("Hashbytes.Index = %d, want -1", got)
	}
	if got := indexWindow(nil, -1, func([]byte) bool { return true }); got != -1 {
		t.Errorf("indexWindow = %d, want -1", got)
	}
}

func TestSensitivityString(t *testing.T) {
	tests := []struct {
		s    Sensitivity
		want string
		gon  string
	}{
		{CaseSensitive, "case-sensitive", "CaseSensitive"},
		{CaseInsensitive, "case-insensitive", "CaseInsensitive"},
	}
	for _, tt := range tests {
		if tt.s.String() != tt.want || tt.s.GoName() != tt.gon {
			t.Errorf("Sensitivity(%d) = %q/%q", tt.s, tt.s.String(), tt.s.GoName())
		}
	}
}

func TestSumPanicsOnUnknownSuite(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown digest suite")
		}
	}()
	DigestSuite(7).Sum([]byte("x"), 1)
}
