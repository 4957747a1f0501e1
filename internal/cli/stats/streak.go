package stats

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
)

type StreakCmd struct {
	Show    StreakShowCmd    `cmd:"" help:"Show the streaks of one habit."`
	All     StreakAllCmd     `cmd:"" help:"Show the streaks of every active habit." default:"1"`
	Overall StreakOverallCmd `cmd:"" help:"Show the habit with the longest streak ever."`
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// reference parses an optional --date flag. The zero time means now.
func reference(ctx *cli.Context, date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, nil
	}
	return ctx.ParseWhen(date)
}

type StreakShowCmd struct {
	Habit string `arg:"" help:"Habit name."`
	Date  string `help:"Evaluate the current streak as of this date (default: now)."`
}

func (c *StreakShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(user.ID, c.Habit)
	if err != nil {
		return err
	}
	ref, err := reference(ctx, c.Date)
	if err != nil {
		return err
	}

	st, err := ctx.Analytics.HabitStreak(habit, ref)
	if err != nil {
		return err
	}

	noun := habit.Periodicity.Noun()
	ctx.Printf("%s (%s)\n", habit.Name, habit.Periodicity)
	ctx.Printf("  Longest streak:  %s\n", plural(st.Longest, noun))
	ctx.Printf("  Current streak:  %s\n", plural(st.Current, noun))
	ctx.Printf("  Due this %s:  %s\n", noun, yesNo(st.Due))
	ctx.Printf("  Periods covered: %d\n", st.Covered)
	if st.LastCompleted != nil {
		ctx.Printf("  Last completed:  %s (%s)\n", st.LastCompleted.Format(constants.DateTimeFormat), ctx.Ago(st.LastCompleted))
	} else {
		ctx.Println("  Last completed:  never")
	}
	return nil
}

type StreakAllCmd struct {
	Date string `help:"Evaluate current streaks as of this date (default: now)."`
}

func (c *StreakAllCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	ref, err := reference(ctx, c.Date)
	if err != nil {
		return err
	}

	all, err := ctx.Analytics.AllStreaks(user.ID, ref)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Printf("%-20s %-7s %7s %7s  %s\n", "Habit", "Period", "Longest", "Current", "Due")
	for _, st := range all {
		ctx.Printf("%-20s %-7s %7d %7d  %s\n", st.Habit.Name, st.Habit.Periodicity, st.Longest, st.Current, yesNo(st.Due))
	}
	return nil
}

type StreakOverallCmd struct{}

func (c *StreakOverallCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	leader, err := ctx.Analytics.LongestOverall(user.ID)
	if err != nil {
		return err
	}
	if leader.Streak == 0 {
		ctx.Println("No streaks yet. Complete a habit to start one.")
		return nil
	}
	ctx.Printf("Longest streak overall: %s with %s\n", leader.Habit.Name, plural(leader.Streak, leader.Habit.Periodicity.Noun()))
	return nil
}

type DueCmd struct {
	Date string `help:"List habits due in the period containing this date (default: now)."`
}

func (c *DueCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	ref, err := reference(ctx, c.Date)
	if err != nil {
		return err
	}

	due, err := ctx.Analytics.HabitsDue(user.ID, ref)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		ctx.Println("No habits due. Well done!")
		return nil
	}

	ctx.Println("Habits you should complete:")
	for _, st := range due {
		ctx.Printf("- %s (%s, current streak %s)\n", st.Habit.Name, st.Habit.Periodicity, plural(st.Current, st.Habit.Periodicity.Noun()))
	}
	return nil
}
