package security

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultPasswordValidatorSuccess(t *testing.T) {
	validator := DefaultPasswordValidator()

	for _, password := range []string{"Passw0rd!", "C0mplex!Passphrase"} {
		if err := validator.Validate(password); err != nil {
			t.Fatalf("expected %q to pass validation, got %v", password, err)
		}
	}
}

func TestDefaultPasswordValidatorReportsFirstViolation(t *testing.T) {
	validator := DefaultPasswordValidator()

	assertViolation := func(password, expectedCode string) {
		t.Helper()
		err := validator.Validate(password)
		if err == nil {
			t.Fatalf("expected validation error for %q", password)
		}
		var vErr *PasswordValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected PasswordValidationError, got %T", err)
		}
		if vErr.Code != expectedCode {
			t.Fatalf("expected %s code for %q, got %s", expectedCode, password, vErr.Code)
		}
	}

	// Length runs first: "abc" also lacks uppercase, digit, and special, but
	// only the length rule is reported.
	assertViolation("abc", "length")
	assertViolation(strings.Repeat("Aa1!", 8), "length")
	assertViolation("password1!", "uppercase")
	assertViolation("PASSWORD1!", "lowercase")
	assertViolation("Password!", "digit")
	assertViolation("Password1", "special")
}

func TestDefaultPasswordValidatorBoundaryLengths(t *testing.T) {
	validator := DefaultPasswordValidator()

	// Exactly 8 and exactly 30 characters are both acceptable.
	if err := validator.Validate("Aa1!bcde"); err != nil {
		t.Fatalf("8-character password should pass, got %v", err)
	}
	thirty := "Aa1!" + strings.Repeat("x", 26)
	if len(thirty) != 30 {
		t.Fatalf("fixture length = %d, want 30", len(thirty))
	}
	if err := validator.Validate(thirty); err != nil {
		t.Fatalf("30-character password should pass, got %v", err)
	}

	if err := validator.Validate(thirty + "x"); err == nil {
		t.Fatal("31-character password should fail the length rule")
	}
}

func TestCustomPasswordValidatorOrdering(t *testing.T) {
	validator := NewPasswordValidator(
		RequireDigitRule(),
		LengthRule(8, 30),
	)

	err := validator.Validate("short")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var vErr *PasswordValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected PasswordValidationError, got %T", err)
	}
	if vErr.Code != "digit" {
		t.Fatalf("rules must run in declaration order; got %s", vErr.Code)
	}
}
