package cmd

import (
	"errors"
	"testing"
)

func TestExitCodeNilIsZero(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
}

func TestExitCodeExtractsCmdErrorCode(t *testing.T) {
	err := exitCode(2, errors.New("both -e and -E set"))
	if got := ExitCode(err); got != 2 {
		t.Errorf("ExitCode() = %d, want 2", got)
	}
}

func TestExitCodeDefaultsToOneForForeignErrors(t *testing.T) {
	if got := ExitCode(errors.New("not a cmdError")); got != 1 {
		t.Errorf("ExitCode() = %d, want 1 for a non-cmdError", got)
	}
}

func TestCmdErrorErrorIsEmptyForNilCause(t *testing.T) {
	err := exitCode(1, nil)
	if got := err.Error(); got != "" {
		t.Errorf("Error() = %q, want empty string for a nil cause (e.g. empty-mask exit)", got)
	}
}

func TestCmdErrorErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := exitCode(1, cause)
	if got := err.Error(); got != "boom" {
		t.Errorf("Error() = %q, want %q", got, "boom")
	}
}
