package cli

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/streaks"
)

// ErrNotLoggedIn is returned by commands that need a user when none is selected.
var ErrNotLoggedIn = errors.New("no user logged in")

type Context struct {
	Store     storage.Provider
	Analytics *analytics.Service
	// User overrides the logged-in user for one invocation (--user).
	User string
	Out  io.Writer
	In   io.Reader
	Now  func() time.Time
}

func NewContext(store storage.Provider, user string) *Context {
	c := &Context{
		Store: store,
		User:  user,
		Out:   os.Stdout,
		In:    os.Stdin,
		Now:   time.Now,
	}
	c.Analytics = analytics.New(store).WithClock(func() time.Time { return c.Now() })
	return c
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !storage.IsSQLite(c.Store) {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// CurrentUser returns the --user override when set, otherwise the logged-in user.
func (c *Context) CurrentUser() (models.User, error) {
	if c.User != "" {
		user, err := c.Store.GetUserByUsername(c.User)
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %q not found", c.User)
		}
		return user, err
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.CurrentUser == "" {
		return models.User{}, fmt.Errorf("%w, run '%s user login <username>' first", ErrNotLoggedIn, constants.AppName)
	}

	user, err := c.Store.GetUser(settings.CurrentUser)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("%w, the stored user no longer exists", ErrNotLoggedIn)
	}
	return user, err
}

// Today returns the current time in the configured timezone.
func (c *Context) Today() (time.Time, error) {
	loc, err := c.Analytics.Location()
	if err != nil {
		return time.Time{}, err
	}
	return c.Now().In(loc), nil
}

// ParseWhen reads a --date style value in the configured timezone.
// Empty and "today" mean now.
func (c *Context) ParseWhen(value string) (time.Time, error) {
	now, err := c.Today()
	if err != nil {
		return time.Time{}, err
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today", "now":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	return streaks.ParseTimestampInLocation(value, now.Location())
}

// FindHabit looks up a live habit of userID by name.
func (c *Context) FindHabit(userID, name string) (models.Habit, error) {
	habit, err := c.Store.GetHabitByName(userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q not found", name)
	}
	return habit, err
}

// Confirm asks a yes/no question on Out and reads the answer from In.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// Ago renders t relative to now, or "never" for nil.
func (c *Context) Ago(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return humanize.RelTime(*t, c.Now(), "ago", "from now")
}
