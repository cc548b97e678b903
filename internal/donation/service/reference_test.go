package service

import "testing"

func TestNewReferenceFormat(t *testing.T) {
	ref := NewReference()
	if !IsReference(ref) {
		t.Fatalf("reference %q does not match expected format", ref)
	}
}

func TestNewReferenceUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		ref := NewReference()
		if _, ok := seen[ref]; ok {
			t.Fatalf("duplicate reference after %d draws: %s", i, ref)
		}
		seen[ref] = struct{}{}
	}
}

func TestIsReferenceRejectsForeignFormats(t *testing.T) {
	cases := []string{
		"",
		"DON_",
		"DON_XYZ",
		"don_0123456789abcdef",
		"DON_0123456789ABCDEF",
		"DON_0123456789abcde",
		"DON_0123456789abcdef0",
		"PAY_0123456789abcdef",
	}
	for _, candidate := range cases {
		if IsReference(candidate) {
			t.Fatalf("expected %q to be rejected", candidate)
		}
	}
}
