package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/secrotate/cli/internal/token"
)

func TestKeypairGenerateCmd_Initialized(t *testing.T) {
	if keypairGenerateCmd == nil {
		t.Fatal("keypairGenerateCmd is nil")
	}

	if keypairGenerateCmd.Use != "generate" {
		t.Errorf("keypairGenerateCmd.Use = %q, want %q", keypairGenerateCmd.Use, "generate")
	}

	flag := keypairGenerateCmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("keypairGenerateCmd should have 'output' flag")
	}
	if flag.DefValue != "./keys" {
		t.Errorf("output flag default = %q, want %q", flag.DefValue, "./keys")
	}
}

func TestRunKeypairGenerate(t *testing.T) {
	dir := t.TempDir()

	origOutput, origKeyID := keypairGenerateOutput, keypairGenerateKeyID
	defer func() {
		keypairGenerateOutput, keypairGenerateKeyID = origOutput, origKeyID
	}()
	keypairGenerateOutput = dir
	keypairGenerateKeyID = "test-key"

	if err := runKeypairGenerate(keypairGenerateCmd, nil); err != nil {
		t.Fatalf("runKeypairGenerate() error = %v", err)
	}

	privatePath := filepath.Join(dir, "test-key_private.pem")
	data, err := os.ReadFile(privatePath)
	if err != nil {
		t.Fatalf("private key not written: %v", err)
	}

	// The generated key must be usable for signing client secrets.
	if _, err := token.ParsePrivateKey(data); err != nil {
		t.Errorf("generated private key does not parse: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "test-key_public.pem")); err != nil {
		t.Errorf("public key not written: %v", err)
	}
}
