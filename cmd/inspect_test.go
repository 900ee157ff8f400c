package cmd

import (
	"testing"
)

func TestInspectCmd_Initialized(t *testing.T) {
	if inspectCmd == nil {
		t.Fatal("inspectCmd is nil")
	}

	if inspectCmd.Use != "inspect <jwt>" {
		t.Errorf("inspectCmd.Use = %q, want %q", inspectCmd.Use, "inspect <jwt>")
	}

	if inspectCmd.RunE == nil {
		t.Error("inspectCmd.RunE should not be nil")
	}

	flag := inspectCmd.Flags().Lookup("format")
	if flag == nil {
		t.Fatal("inspectCmd should have 'format' flag")
	}
	if flag.DefValue != "table" {
		t.Errorf("format flag default = %q, want %q", flag.DefValue, "table")
	}
}

func TestRunInspect_RejectsMalformedToken(t *testing.T) {
	if err := runInspect(inspectCmd, []string{"not-a-jwt"}); err == nil {
		t.Error("runInspect() should fail for a malformed token")
	}
}

func TestOrDash(t *testing.T) {
	if got := orDash(""); got != "-" {
		t.Errorf("orDash(\"\") = %q, want %q", got, "-")
	}
	if got := orDash("x"); got != "x" {
		t.Errorf("orDash(\"x\") = %q, want %q", got, "x")
	}
}
