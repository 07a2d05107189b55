// internal/handlers/user/browse-files/models.go
package browsefiles

import "plan-access-bot/internal/common/transport"

type Input struct {
	UserID int64 `json:"userId"`
}

type Output struct {
	Entitled bool               `json:"entitled"`
	Folders  []Folder           `json:"folders"`
	Text     string             `json:"text"`
	Keyboard transport.Keyboard `json:"-"`
}

type Folder struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}
