package settings

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone *string `help:"IANA timezone periods are evaluated in (e.g. Europe/Berlin, or Local)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		current := "(none)"
		if settings.CurrentUser != "" {
			if user, err := ctx.Store.GetUser(settings.CurrentUser); err == nil {
				current = user.Username
			} else {
				current = "(missing user " + settings.CurrentUser + ")"
			}
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:     %s\n", settings.Timezone)
		ctx.Printf("  Current User: %s\n", current)
		ctx.Printf("  Storage:      %s\n", ctx.Store.GetConfigPath())
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
