package errors

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/streaks"
)

// hints are appended to analytics errors so the user knows how to recover
var hints = []struct {
	target error
	hint   string
}{
	{streaks.ErrInvalidPeriodicity, `periodicity must be "daily" or "weekly"`},
	{streaks.ErrInvalidTimestamp, "dates must look like 2025-01-31 or 2025-01-31T08:00"},
	{streaks.ErrEmptyHabitSet, "add a habit first with 'habitual habit add'"},
	{sql.ErrNoRows, "no matching record was found"},
}

// Describe renders err for the terminal, adding a recovery hint for known failure kinds
func Describe(err error) string {
	if err == nil {
		return ""
	}
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return fmt.Sprintf("%v (%s)", err, h.hint)
		}
	}
	return err.Error()
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + Describe(err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
