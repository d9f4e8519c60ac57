package id

import (
	"strings"
	"testing"
)

func TestGenerate_Length(t *testing.T) {
	for _, length := range []int{1, 8, DefaultLength, 32} {
		got, err := Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d) returned error: %v", length, err)
		}
		if len(got) != length {
			t.Errorf("Generate(%d) returned %q with length %d", length, got, len(got))
		}
	}
}

func TestGenerate_DefaultsOnNonPositiveLength(t *testing.T) {
	got, err := Generate(0)
	if err != nil {
		t.Fatalf("Generate(0) returned error: %v", err)
	}
	if len(got) != DefaultLength {
		t.Errorf("Generate(0) returned length %d, want %d", len(got), DefaultLength)
	}
}

func TestGenerate_AlphabetOnly(t *testing.T) {
	got := MustGenerate(64)
	for _, r := range got {
		if !strings.ContainsRune(alphabet, r) {
			t.Errorf("generated ID contains %q outside the alphabet", r)
		}
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	got, err := GenerateWithPrefix(PrefixSubscription, DefaultLength)
	if err != nil {
		t.Fatalf("GenerateWithPrefix returned error: %v", err)
	}
	if !strings.HasPrefix(got, "sub_") {
		t.Errorf("GenerateWithPrefix returned %q without sub_ prefix", got)
	}

	prefix, shortID, err := ParsePrefixedID(got)
	if err != nil {
		t.Fatalf("ParsePrefixedID(%q) returned error: %v", got, err)
	}
	if prefix != PrefixSubscription || len(shortID) != DefaultLength {
		t.Errorf("ParsePrefixedID(%q) = (%q, %q)", got, prefix, shortID)
	}
}

func TestParsePrefixedID_Invalid(t *testing.T) {
	if _, _, err := ParsePrefixedID("nounderscore"); err == nil {
		t.Error("expected error for ID without underscore")
	}
}

func TestValidatePrefix(t *testing.T) {
	if err := ValidatePrefix("inv_abc123", PrefixInvoice); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePrefix("inv_abc123", PrefixPayment); err == nil {
		t.Error("expected prefix mismatch error")
	}
}

func FuzzParsePrefixedID(f *testing.F) {
	seeds := []string{
		"sub_xK9mP2vL3nQ",
		"inv_abc123",
		"src_tok_123",
		"",
		"nounderscore",
		"_leadingunderscore",
		"trailing_",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		prefix, shortID, err := ParsePrefixedID(input)
		if !strings.Contains(input, "_") {
			if err == nil {
				t.Errorf("ParsePrefixedID(%q) should fail without underscore", input)
			}
			return
		}
		if err == nil && !strings.HasPrefix(input, prefix+"_") {
			t.Errorf("ParsePrefixedID(%q) returned prefix %q not matching input", input, prefix)
		}
		if err == nil {
			parts := strings.SplitN(input, "_", 2)
			if shortID != parts[1] {
				t.Errorf("ParsePrefixedID(%q) returned shortID %q, want %q", input, shortID, parts[1])
			}
		}
	})
}
