package chemicals

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse_SampleDump(t *testing.T) {
	t.Parallel()

	got, stats, err := Parse(filepath.Join("testdata", "chemicals_sample.txt"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if stats.Records != 4 {
		t.Errorf("Records = %d, want 4", stats.Records)
	}
	if stats.Nameless != 1 {
		t.Errorf("Nameless = %d, want 1", stats.Nameless)
	}
	if len(got) != 3 {
		t.Fatalf("chemicals = %d, want 3", len(got))
	}

	byUI := make(map[string]int, len(got))
	for i, c := range got {
		byUI[c.UI] = i
	}

	bevonium := got[byUI["C000002"]]
	if bevonium.Name != "bevonium" {
		t.Errorf("C000002 name = %q", bevonium.Name)
	}
	if !reflect.DeepEqual(bevonium.HeadingMappedTo, []string{"D001561"}) {
		t.Errorf("C000002 heading refs = %v, star marker must be stripped", bevonium.HeadingMappedTo)
	}
	if bevonium.RegistryNumber != "33371-53-8" {
		t.Errorf("C000002 registry number = %q", bevonium.RegistryNumber)
	}

	// Unresolvable references survive parsing; the mapping resolver decides
	// their fate.
	acetylnovadral := got[byUI["C000012"]]
	if !reflect.DeepEqual(acetylnovadral.HeadingMappedTo, []string{"D099999"}) {
		t.Errorf("C000012 heading refs = %v", acetylnovadral.HeadingMappedTo)
	}
	if acetylnovadral.RegistryNumber != "" {
		t.Errorf("C000012 registry number = %q, want empty for placeholder 0", acetylnovadral.RegistryNumber)
	}

	oxon := got[byUI["C000615"]]
	if !reflect.DeepEqual(oxon.HeadingMappedTo, []string{"Temefos", "Calcimycin"}) {
		t.Errorf("C000615 heading refs = %v", oxon.HeadingMappedTo)
	}
	if !reflect.DeepEqual(oxon.Qualifiers, []string{"Q000037"}) {
		t.Errorf("C000615 qualifiers = %v", oxon.Qualifiers)
	}
	if !reflect.DeepEqual(oxon.PharmacologicalActions, []string{"Insecticides"}) {
		t.Errorf("C000615 pharmacological actions = %v", oxon.PharmacologicalActions)
	}
}

func TestCleanHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"*D001561", "D001561"},
		{"D001561", "D001561"},
		{"*Calcimycin-derivative", "Calcimycin"},
		{"Temefos", "Temefos"},
		{" * ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanHeading(tt.in); got != tt.want {
			t.Errorf("cleanHeading(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsQualifierCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"Q000037", true},
		{"Q1", true},
		{"D001561", false},
		{"Qualifier", false},
		{"Q", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isQualifierCode(tt.in); got != tt.want {
			t.Errorf("isQualifierCode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
