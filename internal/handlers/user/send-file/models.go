// internal/handlers/user/send-file/models.go
package sendfile

type Input struct {
	UserID int64  `json:"userId"`
	Folder string `json:"folder"`
	File   string `json:"file"`
}

type Output struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
	Size int    `json:"size"`
}
