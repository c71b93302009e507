package dto

// AuthenticatePayload — событие authenticate realtime-канала
type AuthenticatePayload struct {
	Token string `json:"token"`
}

// MessagePayload — событие send_message
type MessagePayload struct {
	Content string `json:"content"`
}

// TypingPayload — событие typing
type TypingPayload struct {
	IsTyping bool `json:"isTyping"`
}

// TypingBroadcast — исходящее user_typing
type TypingBroadcast struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
