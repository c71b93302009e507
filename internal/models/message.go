package models

// Message — одно сообщение чата. Неизменяемо после создания.
// ID выдается отправителем (см. chatlog.NextID) и строго возрастает,
// Timestamp — миллисекунды от эпохи.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
}
