package config

import "testing"

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := validate.Struct(cfg); err != nil {
		t.Fatalf("Defaults() failed validation: %v", err)
	}
}

func TestLoadWithNoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != Defaults().Root {
		t.Fatalf("Root = %q, want %q", cfg.Root, Defaults().Root)
	}
}
