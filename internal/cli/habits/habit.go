package habits

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit."`
	Complete HabitCompleteCmd `cmd:"" help:"Record a completion for a habit."`
	Log      HabitLogCmd      `cmd:"" help:"Show habit log (ASCII history)."`
	Archive  HabitArchiveCmd  `cmd:"" help:"Archive a habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit (soft delete)."`
	Restore  HabitRestoreCmd  `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Description string `help:"What the habit involves."`
	Periodicity string `short:"p" help:"How often the habit is due (daily or weekly)." default:"daily"`
	Interactive bool   `short:"i" help:"Fill in the habit with an interactive form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	if c.Interactive || c.Name == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	periodicity, err := streaks.ParsePeriodicity(c.Periodicity)
	if err != nil {
		return err
	}

	// Check if habit with same name already exists
	if _, err := ctx.Store.GetHabitByName(user.ID, c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	habit := models.Habit{
		ID:          models.NewID(),
		UserID:      user.ID,
		Name:        strings.TrimSpace(c.Name),
		Description: strings.TrimSpace(c.Description),
		Periodicity: periodicity,
		CreatedAt:   ctx.Now(),
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	ctx.Printf("Added %s habit: %s\n", periodicity, habit.Name)
	return nil
}

func (c *HabitAddCmd) prompt() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&c.Description),
			huh.NewSelect[string]().
				Title("Periodicity").
				Options(
					huh.NewOption("Daily", string(streaks.Daily)),
					huh.NewOption("Weekly", string(streaks.Weekly)),
				).
				Value(&c.Periodicity),
		),
	).Run()
}

type HabitListCmd struct {
	Periodicity string `short:"p" help:"Only list habits with this periodicity (daily or weekly)."`
	Archived    bool   `help:"Include archived habits."`
	Deleted     bool   `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	var habits []models.Habit
	if c.Periodicity != "" {
		p, err := streaks.ParsePeriodicity(c.Periodicity)
		if err != nil {
			return err
		}
		habits, err = ctx.Analytics.HabitsByPeriodicity(user.ID, p)
		if err != nil {
			return err
		}
	} else {
		habits, err = ctx.Store.GetAllHabits(user.ID, c.Archived, c.Deleted)
		if err != nil {
			return err
		}
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		var last *time.Time
		completion, err := ctx.Store.GetLastCompletion(habit.ID)
		switch {
		case err == nil:
			last = &completion.CompletedAt
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		status := ""
		if habit.DeletedAt != nil {
			status = " [DELETED]"
		} else if habit.ArchivedAt != nil {
			status = " [ARCHIVED]"
		}
		ctx.Printf("%-20s %-7s last done %s%s\n", habit.Name, habit.Periodicity, ctx.Ago(last), status)
		if habit.Description != "" {
			ctx.Printf("    %s\n", habit.Description)
		}
	}

	return nil
}

type HabitEditCmd struct {
	Name        string  `arg:"" help:"Habit to edit."`
	Rename      string  `help:"New habit name."`
	Description *string `help:"New description."`
	Periodicity string  `short:"p" help:"New periodicity (daily or weekly)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(user.ID, c.Name)
	if err != nil {
		return err
	}

	updated := false
	if c.Rename != "" && c.Rename != habit.Name {
		if other, err := ctx.Store.GetHabitByName(user.ID, c.Rename); err == nil && other.ID != habit.ID {
			return fmt.Errorf("habit with name %q already exists", c.Rename)
		}
		habit.Name = strings.TrimSpace(c.Rename)
		updated = true
	}
	if c.Description != nil {
		habit.Description = strings.TrimSpace(*c.Description)
		updated = true
	}
	if c.Periodicity != "" {
		p, err := streaks.ParsePeriodicity(c.Periodicity)
		if err != nil {
			return err
		}
		habit.Periodicity = p
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --rename, --description or --periodicity.")
		return nil
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitCompleteCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"When the habit was done: YYYY-MM-DD, YYYY-MM-DDTHH:MM, today or yesterday (default: now)."`
	Note string `help:"Optional note for this completion."`
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(user.ID, c.Name)
	if err != nil {
		return err
	}
	if habit.ArchivedAt != nil {
		return fmt.Errorf("habit %q is archived, unarchive it first", habit.Name)
	}

	at, err := ctx.ParseWhen(c.Date)
	if err != nil {
		return err
	}
	if at.After(ctx.Now()) {
		return fmt.Errorf("%w: %s is in the future", streaks.ErrInvalidTimestamp, at.Format(constants.DateTimeFormat))
	}

	key, err := streaks.KeyFor(habit.Periodicity, at)
	if err != nil {
		return err
	}
	start, end, err := ctx.Analytics.PeriodBounds(habit.Periodicity, at)
	if err != nil {
		return err
	}
	existing, err := ctx.Store.GetCompletionsInRange(habit.ID, start, end)
	if err != nil {
		return err
	}

	completion := models.Completion{
		ID:          models.NewID(),
		HabitID:     habit.ID,
		CompletedAt: at,
		Note:        c.Note,
		CreatedAt:   ctx.Now(),
	}
	if err := ctx.Store.AddCompletion(completion); err != nil {
		return err
	}

	ctx.Printf("Completed %q for %s\n", habit.Name, key)
	if len(existing) > 0 {
		ctx.Printf("  (already completed this %s, the streak is unchanged)\n", habit.Periodicity.Noun())
	}

	stats, err := ctx.Analytics.HabitStreak(habit, time.Time{})
	if err != nil {
		return err
	}
	ctx.Printf("  Current streak: %d %s(s), longest: %d\n", stats.Current, habit.Periodicity.Noun(), stats.Longest)
	return nil
}

type HabitLogCmd struct {
	Habit   string `arg:"" optional:"" help:"Show log for specific habit only."`
	Periods int    `short:"n" help:"Number of periods to show (default: 14 days or 8 weeks)."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	var selected []models.Habit
	if c.Habit != "" {
		habit, err := ctx.FindHabit(user.ID, c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{habit}
	} else {
		selected, err = ctx.Analytics.ListHabits(user.ID)
		if err != nil {
			return err
		}
	}

	if len(selected) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}

	printed := false
	for _, p := range streaks.Periodicities {
		var group []models.Habit
		for _, h := range selected {
			if h.Periodicity == p {
				group = append(group, h)
			}
		}
		if len(group) == 0 {
			continue
		}
		if printed {
			ctx.Println()
		}
		if err := c.render(ctx, p, group, today); err != nil {
			return err
		}
		printed = true
	}
	return nil
}

const logNameWidth = 20

func (c *HabitLogCmd) span(p streaks.Periodicity) int {
	if c.Periods > 0 {
		return c.Periods
	}
	if p == streaks.Weekly {
		return constants.DefaultLogWeeks
	}
	return constants.DefaultLogDays
}

func (c *HabitLogCmd) render(ctx *cli.Context, p streaks.Periodicity, habits []models.Habit, today time.Time) error {
	n := c.span(p)
	last, err := streaks.KeyFor(p, today)
	if err != nil {
		return err
	}
	keys := make([]streaks.PeriodKey, n)
	k := last
	for i := n - 1; i >= 0; i-- {
		keys[i] = k
		k = k.Prev()
	}

	ctx.Printf("Habit log (last %d %ss):\n\n", n, p.Noun())

	// Print header with period labels
	ctx.Printf("%-*s", logNameWidth, "Habit")
	for _, key := range keys {
		ctx.Printf(" %5s", periodLabel(key))
	}
	ctx.Println()
	ctx.Println(strings.Repeat("-", logNameWidth+6*n))

	for _, habit := range habits {
		completions, err := ctx.Store.GetCompletions(habit.ID, false)
		if err != nil {
			return err
		}
		times := models.CompletionTimes(completions, today.Location())
		covered, err := streaks.NormalizePeriods(p, times)
		if err != nil {
			return fmt.Errorf("habit %q: %w", habit.Name, err)
		}

		ctx.Printf("%-*s", logNameWidth, truncate(habit.Name, logNameWidth))
		for _, key := range keys {
			mark := "."
			if covered.Contains(key) {
				mark = "x"
			}
			ctx.Printf("   %s  ", mark)
		}
		ctx.Println()
	}
	return nil
}

func periodLabel(k streaks.PeriodKey) string {
	if k.Periodicity == streaks.Weekly {
		return fmt.Sprintf("W%02d", k.Week)
	}
	return k.Start().Format("01/02")
}

func truncate(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	return string(runes[:width-3]) + "..."
}

type HabitArchiveCmd struct {
	Name      string `arg:"" help:"Habit name to archive."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(user.ID, c.Name)
	if err != nil {
		return err
	}

	if c.Unarchive {
		if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
			return err
		}
		ctx.Printf("Unarchived habit: %s\n", habit.Name)
		return nil
	}

	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	ctx.Printf("Archived habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Name  string `arg:"" help:"Habit name to delete."`
	Purge bool   `help:"Permanently remove the habit and its completions."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt for --purge."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(user.ID, c.Name)
	if err != nil {
		return err
	}

	if !c.Purge {
		if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
			return err
		}
		ctx.Printf("Deleted habit: %s (restore with '%s habit restore %q')\n", habit.Name, constants.AppName, habit.Name)
		return nil
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Permanently delete %q and all of its completions?", habit.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.PurgeHabit(habit.ID); err != nil {
		return err
	}
	ctx.Printf("Permanently deleted habit: %s\n", habit.Name)
	return nil
}

type HabitRestoreCmd struct {
	Name string `arg:"" help:"Habit name to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	if _, err := ctx.Store.GetHabitByName(user.ID, c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	habits, err := ctx.Store.GetAllHabits(user.ID, true, true)
	if err != nil {
		return err
	}

	// most recently deleted wins when the name was reused
	var target *models.Habit
	for i := range habits {
		h := &habits[i]
		if h.DeletedAt == nil || !strings.EqualFold(h.Name, c.Name) {
			continue
		}
		if target == nil || h.DeletedAt.After(*target.DeletedAt) {
			target = h
		}
	}
	if target == nil {
		return fmt.Errorf("no deleted habit named %q", c.Name)
	}

	if err := ctx.Store.RestoreHabit(target.ID); err != nil {
		return err
	}
	ctx.Printf("Restored habit: %s\n", target.Name)
	return nil
}
