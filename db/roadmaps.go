package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shyftcut/api/models"
)

type Roadmap struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Goal      string          `json:"goal"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateRoadmap persists a generated roadmap and increments the user's
// monthly roadmap counter in the same transaction, so the row and its
// bookkeeping commit or roll back together.
func CreateRoadmap(userID, title, goal string, content json.RawMessage) (roadmap *Roadmap, err error) {
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
		INSERT INTO roadmaps (user_id, title, goal, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, title, goal, content, created_at
	`
	roadmap = &Roadmap{}
	err = tx.QueryRow(query, userID, title, goal, content).Scan(
		&roadmap.ID,
		&roadmap.UserID,
		&roadmap.Title,
		&roadmap.Goal,
		&roadmap.Content,
		&roadmap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating roadmap for user %s: %v", userID, err)
	}

	if err = incrementCounterTx(tx, userID, models.CounterRoadmapsCreated); err != nil {
		return nil, err
	}

	return roadmap, nil
}

func GetRoadmapsByUserID(userID string) ([]Roadmap, error) {
	query := `
		SELECT id, user_id, title, goal, content, created_at
		FROM roadmaps
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching roadmaps for user %s: %v", userID, err)
	}
	defer rows.Close()

	roadmaps := []Roadmap{}
	for rows.Next() {
		var r Roadmap
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Goal, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning roadmap: %v", err)
		}
		roadmaps = append(roadmaps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roadmaps: %v", err)
	}
	return roadmaps, nil
}

func GetRoadmapByID(userID, roadmapID string) (*Roadmap, error) {
	query := `
		SELECT id, user_id, title, goal, content, created_at
		FROM roadmaps
		WHERE id = $1 AND user_id = $2
	`
	r := &Roadmap{}
	err := DB.QueryRow(query, roadmapID, userID).Scan(
		&r.ID, &r.UserID, &r.Title, &r.Goal, &r.Content, &r.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting roadmap %s: %v", roadmapID, err)
	}
	return r, nil
}
