package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ktdash/ktdash/internal/model"
)

type NewsStore struct {
	db *sql.DB
}

func NewNewsStore(db *sql.DB) *NewsStore {
	return &NewsStore{db: db}
}

func (s *NewsStore) Create(title, body string, date time.Time) (*model.News, error) {
	result, err := s.db.Exec(
		`INSERT INTO news (title, body, date) VALUES (?, ?, ?)`,
		title, body, date.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert news: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var n model.News
	row := s.db.QueryRow(`SELECT id, title, body, date FROM news WHERE id = ?`, id)
	if err := row.Scan(&n.ID, &n.Title, &n.Body, &n.Date); err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	return &n, nil
}

// List returns up to max news items, most recent first.
func (s *NewsStore) List(max int) ([]model.News, error) {
	rows, err := s.db.Query(`SELECT id, title, body, date FROM news ORDER BY date DESC LIMIT ?`, max)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	var items []model.News
	for rows.Next() {
		var n model.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Date); err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
