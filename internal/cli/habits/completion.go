package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type CompletionCmd struct {
	List    CompletionListCmd    `cmd:"" help:"List completions."`
	Edit    CompletionEditCmd    `cmd:"" help:"Change the date or note of a completion."`
	Delete  CompletionDeleteCmd  `cmd:"" help:"Delete a completion (soft delete)."`
	Restore CompletionRestoreCmd `cmd:"" help:"Restore a deleted completion."`
}

// findCompletion matches ref against the full ID or a unique ID prefix.
func findCompletion(ctx *cli.Context, habit models.Habit, ref string, deleted bool) (models.Completion, error) {
	completions, err := ctx.Store.GetCompletions(habit.ID, deleted)
	if err != nil {
		return models.Completion{}, err
	}

	var matches []models.Completion
	for _, c := range completions {
		if deleted != (c.DeletedAt != nil) {
			continue
		}
		if c.ID == ref {
			return c, nil
		}
		if strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return models.Completion{}, fmt.Errorf("completion %q not found for habit %q", ref, habit.Name)
	case 1:
		return matches[0], nil
	default:
		return models.Completion{}, fmt.Errorf("completion ID %q is ambiguous (%d matches)", ref, len(matches))
	}
}

type CompletionListCmd struct {
	Habit   string `arg:"" optional:"" help:"Only list completions of this habit."`
	Deleted bool   `help:"Include deleted completions."`
}

func (c *CompletionListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	var habits []models.Habit
	if c.Habit != "" {
		habit, err := ctx.FindHabit(user.ID, c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{habit}
	} else {
		habits, err = ctx.Store.GetAllHabits(user.ID, true, false)
		if err != nil {
			return err
		}
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	loc, err := ctx.Analytics.Location()
	if err != nil {
		return err
	}

	for i, habit := range habits {
		if i > 0 {
			ctx.Println()
		}
		completions, err := ctx.Store.GetCompletions(habit.ID, c.Deleted)
		if err != nil {
			return err
		}
		if len(completions) == 0 {
			ctx.Printf("No completions for habit: %s\n", habit.Name)
			continue
		}

		ctx.Printf("Completions for habit: %s\n", habit.Name)
		// newest first
		for j := len(completions) - 1; j >= 0; j-- {
			comp := completions[j]
			at := comp.CompletedAt.In(loc)
			line := fmt.Sprintf("  %s  %s  (%s)", comp.ID, at.Format(constants.DateTimeFormat), ctx.Ago(&at))
			if comp.Note != "" {
				line += "  " + comp.Note
			}
			if comp.DeletedAt != nil {
				line += "  [DELETED]"
			}
			ctx.Println(line)
		}
	}
	return nil
}

type CompletionEditCmd struct {
	Habit string  `arg:"" help:"Habit the completion belongs to."`
	ID    string  `arg:"" help:"Completion ID or a unique prefix of it."`
	Date  string  `help:"New completion date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)."`
	Note  *string `help:"New note."`
}

func (c *CompletionEditCmd) Run(ctx *cli.Context) error {
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
	completion, err := findCompletion(ctx, habit, c.ID, false)
	if err != nil {
		return err
	}

	if c.Date == "" && c.Note == nil {
		ctx.Println("No changes specified. Use --date or --note.")
		return nil
	}
	if c.Date != "" {
		at, err := ctx.ParseWhen(c.Date)
		if err != nil {
			return err
		}
		completion.CompletedAt = at
	}
	if c.Note != nil {
		completion.Note = *c.Note
	}

	if err := ctx.Store.UpdateCompletion(completion); err != nil {
		return err
	}
	loc, err := ctx.Analytics.Location()
	if err != nil {
		return err
	}
	ctx.Printf("Updated completion of %q: %s\n", habit.Name, completion.CompletedAt.In(loc).Format(constants.DateTimeFormat))
	return nil
}

type CompletionDeleteCmd struct {
	Habit string `arg:"" help:"Habit the completion belongs to."`
	ID    string `arg:"" help:"Completion ID or a unique prefix of it."`
}

func (c *CompletionDeleteCmd) Run(ctx *cli.Context) error {
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
	completion, err := findCompletion(ctx, habit, c.ID, false)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteCompletion(completion.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted completion %s of %q\n", completion.ID, habit.Name)
	return nil
}

type CompletionRestoreCmd struct {
	Habit string `arg:"" help:"Habit the completion belongs to."`
	ID    string `arg:"" help:"Completion ID or a unique prefix of it."`
}

func (c *CompletionRestoreCmd) Run(ctx *cli.Context) error {
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
	completion, err := findCompletion(ctx, habit, c.ID, true)
	if err != nil {
		return err
	}

	if err := ctx.Store.RestoreCompletion(completion.ID); err != nil {
		return err
	}
	ctx.Printf("Restored completion %s of %q\n", completion.ID, habit.Name)
	return nil
}
