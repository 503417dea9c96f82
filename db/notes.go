package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"shyftcut/api/models"
)

type Note struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	RoadmapID *string   `json:"roadmap_id,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateNote inserts a note and bumps the cumulative notes counter in one
// transaction. The counter tracks live rows, so deletion decrements it.
func CreateNote(userID string, roadmapID *string, title, body string) (note *Note, err error) {
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
		INSERT INTO notes (user_id, roadmap_id, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, roadmap_id, title, body, created_at
	`
	note = &Note{}
	err = tx.QueryRow(query, userID, roadmapID, title, body).Scan(
		&note.ID, &note.UserID, &note.RoadmapID, &note.Title, &note.Body, &note.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating note for user %s: %v", userID, err)
	}

	if err = incrementCounterTx(tx, userID, models.CounterNotes); err != nil {
		return nil, err
	}

	return note, nil
}

// DeleteNote removes a note and decrements the counter in one transaction.
// Returns false when the note does not exist or belongs to another user.
func DeleteNote(userID, noteID string) (deleted bool, err error) {
	tx, err := DB.Begin()
	if err != nil {
		return false, err
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

	res, err := tx.Exec(`DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, userID)
	if err != nil {
		return false, fmt.Errorf("error deleting note %s: %v", noteID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err = decrementCounterTx(tx, userID, models.CounterNotes); err != nil {
		return false, err
	}
	return true, nil
}

func GetNotesByUserID(userID string) ([]Note, error) {
	query := `
		SELECT id, user_id, roadmap_id, title, body, created_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching notes for user %s: %v", userID, err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.RoadmapID, &n.Title, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning note: %v", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %v", err)
	}
	return notes, nil
}
