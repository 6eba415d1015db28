package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ktdash/ktdash/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.UserID, &u.Username, &u.PassHash, &u.CreatedDate)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, userid, username, passhash, createddate`

func (s *UserStore) Create(userID, username, passhash string) (*model.User, error) {
	_, err := s.db.Exec(
		`INSERT INTO users (userid, username, passhash, createddate) VALUES (?, ?, ?, ?)`,
		userID, username, passhash, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByUserID(userID)
}

func (s *UserStore) GetByUserID(userID string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE userid = ?`, userID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// UserIDExists is the collision check for short-ID generation.
func (s *UserStore) UserIDExists(userID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM users WHERE userid = ?`, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check userid: %w", err)
	}
	return n > 0, nil
}
