package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/streaks"
	"github.com/julianstephens/habitual/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks never fail the run
	warnOnly bool
	// needsDB checks are skipped when the database cannot be loaded
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone, needsDB: true},
	{name: "Current user", run: checkCurrentUser, needsDB: true, warnOnly: true},
	{name: "Habit integrity", run: checkHabitsIntegrity, needsDB: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	// Check 1: DB reachable
	if err := ctx.Store.Load(); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", st.Current, st.Latest, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !storage.IsSQLite(ctx.Store) {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	latest, ok, err := mgr.Latest()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if !ok {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	if age := ctx.Now().Sub(latest.Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup %s is %s", latest.Name(), ctx.Ago(&latest.Timestamp))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if _, err := utils.LocationFromSettings(settings); err != nil {
		return fmt.Errorf("%w (fix with '%s settings --timezone')", err, constants.AppName)
	}
	return nil
}

func checkCurrentUser(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if errors.Is(err, cli.ErrNotLoggedIn) {
		return err
	} else if err != nil {
		return fmt.Errorf("failed to resolve current user: %w", err)
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("user %s: %w", user.ID, err)
	}
	return nil
}

// checkHabitsIntegrity loads every habit of every user and runs the analyzer over
// it, which surfaces unreadable timestamps and invalid periodicities.
func checkHabitsIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits("", true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	owners := make(map[string]bool)
	for _, h := range habits {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
		if _, seen := owners[h.UserID]; !seen {
			_, err := ctx.Store.GetUser(h.UserID)
			owners[h.UserID] = err == nil
		}
		if !owners[h.UserID] {
			return fmt.Errorf("habit %q references missing user %s", h.Name, h.UserID)
		}

		completions, err := ctx.Store.GetCompletions(h.ID, true)
		if err != nil {
			return fmt.Errorf("habit %q: %w", h.Name, err)
		}
		times := make([]time.Time, 0, len(completions))
		for _, c := range completions {
			times = append(times, c.CompletedAt)
		}
		if _, err := streaks.NormalizePeriods(h.Periodicity, times); err != nil {
			return fmt.Errorf("habit %q: %w", h.Name, err)
		}
	}
	return nil
}
