package cmd

import (
	"testing"
)

func TestAppleSecretCmd_Initialized(t *testing.T) {
	if appleSecretCmd == nil {
		t.Fatal("appleSecretCmd is nil")
	}

	if appleSecretCmd.Use != "secret" {
		t.Errorf("appleSecretCmd.Use = %q, want %q", appleSecretCmd.Use, "secret")
	}

	if appleSecretCmd.Short == "" {
		t.Error("appleSecretCmd.Short should not be empty")
	}

	if appleSecretCmd.RunE == nil {
		t.Error("appleSecretCmd.RunE should not be nil")
	}
}

func TestAppleSecretCmd_Flags(t *testing.T) {
	for _, name := range []string{"secret", "dry-run"} {
		if appleSecretCmd.Flags().Lookup(name) == nil {
			t.Errorf("appleSecretCmd should have %q flag", name)
		}
	}
}

func TestAppleCmd_HasSecretSubcommand(t *testing.T) {
	for _, sub := range appleCmd.Commands() {
		if sub.Name() == "secret" {
			return
		}
	}
	t.Error("apple command is missing 'secret' subcommand")
}

func TestGoogleSecretCmd_Initialized(t *testing.T) {
	if googleSecretCmd == nil {
		t.Fatal("googleSecretCmd is nil")
	}

	if googleSecretCmd.RunE == nil {
		t.Error("googleSecretCmd.RunE should not be nil")
	}

	for _, name := range []string{"secret", "dry-run"} {
		if googleSecretCmd.Flags().Lookup(name) == nil {
			t.Errorf("googleSecretCmd should have %q flag", name)
		}
	}
}
