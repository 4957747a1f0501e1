package users

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/seed"
)

type UserCmd struct {
	Register RegisterCmd `cmd:"" help:"Register a new user."`
	Login    LoginCmd    `cmd:"" help:"Log in as an existing user."`
	Logout   LogoutCmd   `cmd:"" help:"Log out the current user."`
	List     ListCmd     `cmd:"" help:"List users."`
	Edit     EditCmd     `cmd:"" help:"Edit the current user."`
	Delete   DeleteCmd   `cmd:"" help:"Delete a user together with their habits and completions."`
}

// Register stores a new user and, when withSeed is set, the predefined example habits.
func Register(ctx *cli.Context, username, email string, withSeed bool) (models.User, error) {
	username = strings.TrimSpace(username)
	if _, err := ctx.Store.GetUserByUsername(username); err == nil {
		return models.User{}, fmt.Errorf("user %q already exists", username)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	user := models.User{
		ID:        models.NewID(),
		Username:  username,
		Email:     strings.TrimSpace(email),
		CreatedAt: ctx.Now(),
	}
	if err := user.Validate(); err != nil {
		return models.User{}, err
	}
	if err := ctx.Store.AddUser(user); err != nil {
		return models.User{}, fmt.Errorf("failed to add user: %w", err)
	}
	logger.Info("registered user", "username", user.Username)

	if withSeed {
		now, err := ctx.Today()
		if err != nil {
			return user, err
		}
		habits, err := seed.Seed(ctx.Store, user.ID, now)
		if err != nil {
			return user, err
		}
		ctx.Printf("Created %d example habits with four weeks of history\n", len(habits))
	}
	return user, nil
}

// Login makes user the default for later commands.
func Login(ctx *cli.Context, user models.User) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.CurrentUser = user.ID
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

type RegisterCmd struct {
	Username string `arg:"" optional:"" help:"Username (prompted when omitted)."`
	Email    string `help:"Email address (prompted when omitted)."`
	NoSeed   bool   `help:"Skip the predefined example habits."`
	NoLogin  bool   `help:"Do not log in as the new user."`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.Username == "" || c.Email == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	user, err := Register(ctx, c.Username, c.Email, !c.NoSeed)
	if err != nil {
		return err
	}
	ctx.Printf("Registered user: %s\n", user.Username)

	if c.NoLogin {
		return nil
	}
	if err := Login(ctx, user); err != nil {
		return err
	}
	ctx.Printf("Logged in as %s\n", user.Username)
	return nil
}

func (c *RegisterCmd) prompt() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&c.Username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("username cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Value(&c.Email).
				Validate(func(s string) error {
					_, err := mail.ParseAddress(s)
					return err
				}),
		),
	).Run()
}

type LoginCmd struct {
	Username string `arg:"" help:"Username to log in as."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.Store.GetUserByUsername(c.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %q not found, register with '%s user register'", c.Username, constants.AppName)
	} else if err != nil {
		return err
	}

	if err := Login(ctx, user); err != nil {
		return err
	}
	ctx.Printf("Logged in as %s\n", user.Username)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.CurrentUser == "" {
		ctx.Println("No user is logged in.")
		return nil
	}

	settings.CurrentUser = ""
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Logged out.")
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ctx.Println("No users found.")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	for _, u := range users {
		marker := " "
		if u.ID == settings.CurrentUser {
			marker = "*"
		}
		created := u.CreatedAt
		ctx.Printf("%s %-20s %-30s joined %s\n", marker, u.Username, u.Email, ctx.Ago(&created))
	}
	return nil
}

type EditCmd struct {
	Username string `help:"New username."`
	Email    string `help:"New email address."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	updated := false
	if c.Username != "" && c.Username != user.Username {
		if _, err := ctx.Store.GetUserByUsername(c.Username); err == nil {
			return fmt.Errorf("user %q already exists", c.Username)
		}
		user.Username = c.Username
		updated = true
	}
	if c.Email != "" && c.Email != user.Email {
		user.Email = c.Email
		updated = true
	}
	if !updated {
		ctx.Println("No changes specified. Use --username or --email.")
		return nil
	}

	if err := user.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpdateUser(user); err != nil {
		return err
	}
	ctx.Printf("Updated user: %s <%s>\n", user.Username, user.Email)
	return nil
}

type DeleteCmd struct {
	Username string `arg:"" help:"User to delete."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	user, err := ctx.Store.GetUserByUsername(c.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %q not found", c.Username)
	} else if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %s and all of their habits?", user.Username))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.DeleteUser(user.ID); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.CurrentUser == user.ID {
		settings.CurrentUser = ""
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	ctx.Printf("Deleted user: %s\n", user.Username)
	return nil
}
