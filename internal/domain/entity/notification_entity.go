package entity

import "time"

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a transient, auto-dismissing user message. Nothing stores it.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

func Success(msg string) Notification { return Notification{Level: NotificationSuccess, Message: msg} }
func Warning(msg string) Notification { return Notification{Level: NotificationWarning, Message: msg} }
func Failure(msg string) Notification { return Notification{Level: NotificationError, Message: msg} }

// Screen names for navigation hints returned to the client.
const (
	ScreenLanding    = "landing"
	ScreenOnboarding = "onboarding"
	ScreenDashboard  = "dashboard"
	ScreenProfile    = "profile"
)

// Redirect tells the client to move to another screen, optionally after Delay.
type Redirect struct {
	To    string        `json:"to"`
	Delay time.Duration `json:"-"`
	// DelayMS mirrors Delay for JSON clients.
	DelayMS int64 `json:"delay_ms,omitempty"`
}

func RedirectTo(screen string, delay time.Duration) *Redirect {
	return &Redirect{To: screen, Delay: delay, DelayMS: delay.Milliseconds()}
}
