package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shyftcut/api/models"
)

type Task struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"user_id"`
	RoadmapID *string    `json:"roadmap_id,omitempty"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateTask inserts a task and bumps the cumulative tasks counter in one
// transaction.
func CreateTask(userID string, roadmapID *string, title string, dueDate *time.Time) (task *Task, err error) {
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
		INSERT INTO tasks (user_id, roadmap_id, title, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, roadmap_id, title, completed, due_date, created_at
	`
	task = &Task{}
	err = tx.QueryRow(query, userID, roadmapID, title, dueDate).Scan(
		&task.ID, &task.UserID, &task.RoadmapID, &task.Title, &task.Completed, &task.DueDate, &task.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating task for user %s: %v", userID, err)
	}

	if err = incrementCounterTx(tx, userID, models.CounterTasks); err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask removes a task and decrements the counter in one transaction.
func DeleteTask(userID, taskID string) (deleted bool, err error) {
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

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("error deleting task %s: %v", taskID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err = decrementCounterTx(tx, userID, models.CounterTasks); err != nil {
		return false, err
	}
	return true, nil
}

// SetTaskCompleted toggles completion without touching counters; the task
// still exists either way.
func SetTaskCompleted(userID, taskID string, completed bool) (*Task, error) {
	query := `
		UPDATE tasks
		SET completed = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, roadmap_id, title, completed, due_date, created_at
	`
	task := &Task{}
	err := DB.QueryRow(query, completed, taskID, userID).Scan(
		&task.ID, &task.UserID, &task.RoadmapID, &task.Title, &task.Completed, &task.DueDate, &task.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error updating task %s: %v", taskID, err)
	}
	return task, nil
}

func GetTasksByUserID(userID string) ([]Task, error) {
	query := `
		SELECT id, user_id, roadmap_id, title, completed, due_date, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching tasks for user %s: %v", userID, err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.RoadmapID, &t.Title, &t.Completed, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning task: %v", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %v", err)
	}
	return tasks, nil
}
