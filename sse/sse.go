package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"shyftcut/api/logger"
	"shyftcut/api/models"
)

// ClientStream is one open SSE connection, keyed by chat session.
type ClientStream struct {
	Messages chan string
	Done     chan struct{}
}

var (
	connections = make(map[string]*ClientStream)
	mu          sync.RWMutex
)

// Register attaches a stream for a session, replacing any previous one.
func Register(sessionID string, stream *ClientStream) {
	mu.Lock()
	connections[sessionID] = stream
	mu.Unlock()
}

// Unregister removes the stream for a session.
func Unregister(sessionID string) {
	mu.Lock()
	delete(connections, sessionID)
	mu.Unlock()
}

// SendChunkToClient forwards one AI response chunk to the session's open
// stream, if any. The final chunk closes the stream.
func SendChunkToClient(sessionID string, chunk []byte) {
	mu.RLock()
	stream, ok := connections[sessionID]
	mu.RUnlock()
	if !ok {
		logger.Get().Debug("no client stream for session", zap.String("session_id", sessionID))
		return
	}

	var response models.AIResponse
	if err := json.Unmarshal(chunk, &response); err != nil {
		logger.Get().Error("failed to unmarshal AI response chunk", zap.Error(err))
		return
	}

	if response.LastMessage {
		select {
		case stream.Messages <- "[DONE]":
		default:
		}
		select {
		case stream.Done <- struct{}{}:
		default:
		}
		return
	}

	select {
	case stream.Messages <- response.Message:
	default:
		logger.Get().Warn("dropping chunk, client stream full",
			zap.String("session_id", sessionID))
	}
}
