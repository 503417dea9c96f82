package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shyftcut/api/models"
)

type QuizSubmission struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"user_id"`
	RoadmapID *string         `json:"roadmap_id,omitempty"`
	Topic     string          `json:"topic"`
	Score     int             `json:"score"`
	Answers   json.RawMessage `json:"answers"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateQuizSubmission persists a submitted quiz and increments the monthly
// quiz counter in the same transaction.
func CreateQuizSubmission(userID string, roadmapID *string, topic string, score int, answers json.RawMessage) (sub *QuizSubmission, err error) {
	tx, err := DB.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	query := `
		INSERT INTO quiz_submissions (user_id, roadmap_id, topic, score, answers)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, roadmap_id, topic, score, answers, created_at
	`
	sub = &QuizSubmission{}
	err = tx.QueryRow(query, userID, roadmapID, topic, score, answers).Scan(
		&sub.ID, &sub.UserID, &sub.RoadmapID, &sub.Topic, &sub.Score, &sub.Answers, &sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating quiz submission for user %s: %v", userID, err)
	}

	if err = incrementCounterTx(tx, userID, models.CounterQuizzesTaken); err != nil {
		return nil, err
	}

	return sub, nil
}
