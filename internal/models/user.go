package models

// User — запись реестра пользователей. Набор пользователей фиксирован и
// создаётся при старте процесса; меняются только сессия и присутствие.
type User struct {
	Username     string  `json:"username"`
	PasswordHash string  `json:"password"`
	Token        string  `json:"token,omitempty"`
	IsOnline     bool    `json:"isOnline"`
	LastSeen     *int64  `json:"lastSeen"`
	SocketID     *string `json:"socketId"`
}

// Presence — статус пользователя для событий user_status и online_users
type Presence struct {
	Username string `json:"username"`
	IsOnline bool   `json:"isOnline"`
	LastSeen *int64 `json:"lastSeen"`
}

func (u *User) Presence() Presence {
	return Presence{
		Username: u.Username,
		IsOnline: u.IsOnline,
		LastSeen: u.LastSeen,
	}
}
