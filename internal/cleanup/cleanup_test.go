package cleanup

import (
	"errors"
	"strings"
	"testing"
)

func TestRunAll_LIFOAndJoinedErrors(t *testing.T) {
	var order []string
	errMemo := errors.New("database is locked")

	Register("log file", func() error { order = append(order, "log"); return nil })
	Register("memo", func() error { order = append(order, "memo"); return errMemo })
	Register("nil hook", nil)
	Register("client", func() error { order = append(order, "client"); return nil })

	if got := Pending(); got != 3 {
		t.Fatalf("Pending() = %d, want 3", got)
	}

	err := RunAll()
	if !errors.Is(err, errMemo) {
		t.Fatalf("expected joined memo error, got %v", err)
	}
	if !strings.Contains(err.Error(), "memo: database is locked") {
		t.Fatalf("error should name the hook: %v", err)
	}
	if strings.Join(order, ",") != "client,memo,log" {
		t.Fatalf("unexpected order: %v", order)
	}
	if Pending() != 0 {
		t.Fatal("hooks should be cleared")
	}
	if err := RunAll(); err != nil {
		t.Fatalf("second RunAll: %v", err)
	}
}
