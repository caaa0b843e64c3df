package models

import "time"

// Persisted store keys. They match the keys the browser front end used in
// local storage so state can be migrated verbatim.
const (
	KeyRememberedEmail = "rememberedEmail"
	KeyLoginAttempts   = "loginAttempts"
	KeyLockoutUntil    = "lockoutUntil"
	KeySessionToken    = "token"
)

// ThrottleState is the login throttle's state machine position.
type ThrottleState int

const (
	ThrottleOpen ThrottleState = iota
	ThrottleLocked
)

func (s ThrottleState) String() string {
	switch s {
	case ThrottleLocked:
		return "locked"
	default:
		return "open"
	}
}

// ThrottleSnapshot is a point-in-time view of a client's throttle.
type ThrottleSnapshot struct {
	State         ThrottleState
	Attempts      int
	LockedUntil   *time.Time
	RemainingText string
}

// FormState is what the login form needs when it mounts.
type FormState struct {
	Correo       string `json:"correo"`
	RememberMe   bool   `json:"remember_me"`
	Locked       bool   `json:"locked"`
	LockoutText  string `json:"lockout_text,omitempty"`
	AttemptsLeft int    `json:"attempts_left"`
}

// LoginForm holds the values submitted by the login form.
type LoginForm struct {
	Correo     string `json:"correo"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}
