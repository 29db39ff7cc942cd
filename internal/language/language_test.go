package language

import "testing"

func TestEquivalent(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"ja", "ja", true},
		{"ja", "JPN", true},
		{"fre", "fr", true},
		{"fra", "fre", true},
		{"en-US", "eng", true},
		{"en", "ja", false},
		{"xx", "xx", true},
		{"xx", "xy", false},
		{"", "", false},
		{"und", "und", true},
	}
	for _, tt := range tests {
		if got := Equivalent(tt.a, tt.b); got != tt.want {
			t.Errorf("Equivalent(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	for _, code := range []string{"en", "jpn", "und", "EN", "pt-BR"} {
		if !Valid(code) {
			t.Errorf("expected %q to be valid", code)
		}
	}
	for _, code := range []string{"", "e", "engl", "e1", "日本"} {
		if Valid(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"en":  "English",
		"ger": "German",
		"zho": "Chinese",
		"und": "Undefined",
		"":    "Unknown",
		"xyz": "XYZ",
	}
	for input, want := range tests {
		if got := DisplayName(input); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsUndefined(t *testing.T) {
	if !IsUndefined("UND") || !IsUndefined(" ") {
		t.Fatal("expected und and blank to be undefined")
	}
	if IsUndefined("en") {
		t.Fatal("en is defined")
	}
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil", nil, nil},
		{"blank only", []string{" "}, nil},
		{"dedup equivalent", []string{"en", "ENG", "ja"}, []string{"en", "ja"}},
		{"keeps spelling", []string{"jpn"}, []string{"jpn"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeList(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("NormalizeList(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("NormalizeList(%v)[%d] = %q, want %q", tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}
