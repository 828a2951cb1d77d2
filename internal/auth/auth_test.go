package auth

import (
	"errors"
	"testing"
)

func TestTokenValidate(t *testing.T) {
	tests := []struct {
		name    string
		stored  Token
		input   string
		wantErr error
	}{
		{name: "unset token is open", stored: "", input: "", wantErr: nil},
		{name: "mismatched token denied", stored: "abc", input: "xyz", wantErr: ErrUnauthorized},
		{name: "missing token denied", stored: "abc", input: "", wantErr: ErrUnauthorized},
		{name: "matching token accepted", stored: "abc", input: "abc", wantErr: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.stored.Validate(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFuncValidator(t *testing.T) {
	validator := FuncValidator(func(token string) error {
		if token != "ok" {
			return ErrUnauthorized
		}
		return nil
	})
	if err := validator.Validate("bad"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for bad token, got %v", err)
	}
	if err := validator.Validate("ok"); err != nil {
		t.Fatalf("expected success for ok token, got %v", err)
	}
}

func TestBearer(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":    "abc",
		"bearer  abc ":  "abc",
		"Basic abc":     "",
		"abc":           "",
		"":              "",
	}
	for in, want := range cases {
		if got := Bearer(in); got != want {
			t.Fatalf("Bearer(%q): expected %q, got %q", in, want, got)
		}
	}
}
