package validate

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@x.com", true},
		{"first.last@shop.example.org", true},
		{"a@x", false},
		{"a x@y.com", false},
		{"@x.com", false},
		{"a@@x.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Email(tt.in); got != tt.want {
			t.Errorf("Email(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZIP(t *testing.T) {
	tests := map[string]bool{
		"12345":  true,
		"1234":   false,
		"123456": false,
		"12a45":  false,
		"":       false,
	}
	for in, want := range tests {
		if got := ZIP(in); got != want {
			t.Errorf("ZIP(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAnyBlank(t *testing.T) {
	if !AnyBlank("a", "  ", "b") {
		t.Error("whitespace-only value should count as blank")
	}
	if AnyBlank("a", "b") {
		t.Error("no blanks expected")
	}
	if AnyBlank() {
		t.Error("no values means nothing blank")
	}
}
