// internal/handlers/user/start/models.go
package start

import "plan-access-bot/internal/common/transport"

// Screen is what /start showed the user.
type Screen string

const (
	ScreenAdmin Screen = "admin"
	ScreenFiles Screen = "files"
	ScreenPlans Screen = "plans"
)

type Input struct {
	UserID int64 `json:"userId"`
}

type Output struct {
	Screen   Screen             `json:"screen"`
	Text     string             `json:"text"`
	Keyboard transport.Keyboard `json:"-"`
}
