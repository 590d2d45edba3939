package config

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "yml alias", mutate: func(c *Config) { c.Output = "yml" }},
		{name: "empty log format", mutate: func(c *Config) { c.LogFormat = "" }},
		{
			name:    "version zero",
			mutate:  func(c *Config) { c.Version = 0 },
			wantErr: []error{ErrUnsupportedVersion},
		},
		{
			name: "several problems",
			mutate: func(c *Config) {
				c.Version = 3
				c.Output = "xml"
				c.Color = "rainbow"
			},
			wantErr: []error{ErrUnsupportedVersion, ErrInvalidValue, ErrInvalidValue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := Validate(cfg)
			if len(errs) != len(tt.wantErr) {
				t.Fatalf("Validate() returned %d errors %v, want %d", len(errs), errs, len(tt.wantErr))
			}
			for i, want := range tt.wantErr {
				if !errors.Is(errs[i], want) {
					t.Errorf("error %d = %v, want %v", i, errs[i], want)
				}
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}
}

func TestFieldError(t *testing.T) {
	err := &FieldError{Field: "color", Value: "rainbow", Allowed: []string{"auto", "never"}}

	want := `color: invalid value "rainbow" (allowed: auto, never)`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "color" {
		t.Error("errors.As failed to extract FieldError")
	}
}
