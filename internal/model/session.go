package model

// Session links a telegram chat to a journal user.
type Session struct {
	ChatID int64  `json:"chatID"`
	UserID string `json:"userID"`
}
