package constants

const (
	SettingTimezone    = "timezone"
	SettingCurrentUser = "current_user"

	DefaultTimezone = "Local" // Use system local timezone by default
)
