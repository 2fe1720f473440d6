package services

import "testing"

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"", true},
		{"+39 011 123456", true},
		{"3401234567", true},
		{"340-123-4567", true},
		{"12345", false},
		{"not a phone", false},
	}
	for _, tc := range cases {
		if got := ValidatePhone(tc.phone); got != tc.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"", true},
		{"anna@example.com", true},
		{"a.b+tag@sub.example.it", true},
		{"not-an-email", false},
		{"@example.com", false},
	}
	for _, tc := range cases {
		if got := ValidateEmail(tc.email); got != tc.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestValidateDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"12", true},
		{"12.5", true},
		{"12,5", true},
		{"-3.2", true},
		{"abc", false},
		{"1.2.3", false},
	}
	for _, tc := range cases {
		if got := ValidateDecimal(tc.in); got != tc.want {
			t.Errorf("ValidateDecimal(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValidatePriceSource(t *testing.T) {
	for _, valid := range []string{"", "dei", "PAT", " piemonte "} {
		if !ValidatePriceSource(valid) {
			t.Errorf("ValidatePriceSource(%q) = false, want true", valid)
		}
	}
	if ValidatePriceSource("lombardia") {
		t.Error("unknown source accepted")
	}
}

func TestValidateClientContact(t *testing.T) {
	errs := ValidateClientContact(map[string]string{
		"clientPhone": "not a phone",
		"clientEmail": "anna@example.com",
	})
	if _, ok := errs["clientPhone"]; !ok {
		t.Error("expected clientPhone error")
	}
	if _, ok := errs["clientEmail"]; ok {
		t.Error("unexpected clientEmail error")
	}
}
