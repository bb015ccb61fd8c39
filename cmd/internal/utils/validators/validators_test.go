package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	_ = v.RegisterValidation("iso8601", IsIso8601)
	_ = v.RegisterValidation("e164", IsE164)
	_ = v.RegisterValidation("nospaces", NoWhiteSpaces)
	return v
}

func TestIsIso8601(t *testing.T) {
	v := newValidator(t)
	type in struct {
		T string `validate:"iso8601"`
	}

	tests := []struct {
		value string
		valid bool
	}{
		{"2024-01-10T09:00:00Z", true},
		{"2024-01-10T09:00:00+03:00", true},
		{"2024-01-10", false},
		{"10/01/2024 09:00", false},
		{"", false},
	}
	for _, tt := range tests {
		err := v.Struct(&in{T: tt.value})
		if tt.valid && err != nil {
			t.Errorf("%q should be valid: %v", tt.value, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("%q should be invalid", tt.value)
		}
	}
}

func TestIsE164(t *testing.T) {
	v := newValidator(t)
	type in struct {
		P string `validate:"e164"`
	}

	tests := []struct {
		value string
		valid bool
	}{
		{"+251911234567", true},
		{"+14155550123", true},
		{"0911234567", false},
		{"+0911234567", false},
		{"+2519", false},
		{"phone", false},
	}
	for _, tt := range tests {
		err := v.Struct(&in{P: tt.value})
		if tt.valid && err != nil {
			t.Errorf("%q should be valid: %v", tt.value, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("%q should be invalid", tt.value)
		}
	}
}

func TestNoWhiteSpaces(t *testing.T) {
	v := newValidator(t)
	type in struct {
		S string `validate:"nospaces"`
	}

	if err := v.Struct(&in{S: "sub-123"}); err != nil {
		t.Errorf("plain string should pass: %v", err)
	}
	for _, bad := range []string{"a b", "a\tb", "a\nb"} {
		if err := v.Struct(&in{S: bad}); err == nil {
			t.Errorf("%q should fail", bad)
		}
	}
}
