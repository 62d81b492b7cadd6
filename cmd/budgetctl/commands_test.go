package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
)

// runCommand executes budgetctl against a sqlite file shared by every call in the test
func runCommand(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", dbPath)
	flagBackend, flagVerbose, flagMonth = "", false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMonthCommand_UnknownMonthWritesNothing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")

	_, err := runCommand(t, dbPath, "month", "--month", "2019-01")
	if err == nil || !strings.Contains(err.Error(), "2019-01") {
		t.Fatalf("Expected an error naming 2019-01, got %v", err)
	}

	out, err := runCommand(t, dbPath, "months")
	if err != nil {
		t.Fatalf("months: %v", err)
	}
	if strings.Contains(out, "2019-01") {
		t.Errorf("Inspecting a month must not create it:\n%s", out)
	}
}

func TestMonthCommand_PastMonth(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")

	out, err := runCommand(t, dbPath, "month", "-m", "2025-04")
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	for _, want := range []string{"April 2025", "13300.00", "Past month, read only"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestMonthCommand_InvalidKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")

	if _, err := runCommand(t, dbPath, "month", "-m", "April"); err == nil {
		t.Error("Expected an error for a malformed month")
	}
}

func TestSetBudgetCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")

	out, err := runCommand(t, dbPath, "set-budget", "20000")
	if err != nil {
		t.Fatalf("set-budget: %v", err)
	}
	if !strings.Contains(out, "20000.00") {
		t.Errorf("Unexpected output %q", out)
	}

	out, err = runCommand(t, dbPath, "month")
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if !strings.Contains(out, "20000.00") {
		t.Errorf("Expected the new budget to be stored:\n%s", out)
	}
	if strings.Contains(out, "read only") {
		t.Errorf("Current month must not be read only:\n%s", out)
	}

	if _, err := runCommand(t, dbPath, "set-budget", "abc"); err == nil {
		t.Error("Expected an error for a non-numeric amount")
	}
}

func TestReadOnlyNote(t *testing.T) {
	current := domain.MonthKey("2025-05")
	tests := map[domain.MonthKey]string{
		"2025-04": "Past month, read only",
		"2025-05": "",
		"2025-06": "Future month, read only",
	}
	for key, want := range tests {
		if got := readOnlyNote(key, current); got != want {
			t.Errorf("readOnlyNote(%s) = %q, want %q", key, got, want)
		}
	}
}
