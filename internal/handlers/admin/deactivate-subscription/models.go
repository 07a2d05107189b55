// internal/handlers/admin/deactivate-subscription/models.go
package deactivatesubscription

type Input struct {
	AdminID int64 `json:"adminId"`
	UserID  int64 `json:"userId"`
}

type Output struct {
	UserID  int64 `json:"userId"`
	Removed bool  `json:"removed"`
}
