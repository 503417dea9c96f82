package models

// ChatMessage is one message in a roadmap chat session, stored in MongoDB.
type ChatMessage struct {
	SessionID string `bson:"session_id" json:"session_id"`
	UserID    string `bson:"user_id" json:"user_id"`
	Sender    string `bson:"sender" json:"sender"`
	Text      string `bson:"text" json:"text"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// AIResponse is one streamed chunk produced by the AI service on the
// response topic.
type AIResponse struct {
	SessionID   string `json:"session_id"`
	Message     string `json:"message"`
	LastMessage bool   `json:"last_message"`
}

// UsageEvent is the engagement-analytics event emitted after every
// successful gated action.
type UsageEvent struct {
	UserID    string  `json:"user_id"`
	Counter   Counter `json:"counter"`
	Tier      string  `json:"tier"`
	Timestamp int64   `json:"timestamp"`
}
