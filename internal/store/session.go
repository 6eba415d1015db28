package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ktdash/ktdash/internal/auth"
	"github.com/ktdash/ktdash/internal/model"
)

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func scanSession(scanner interface{ Scan(...any) error }) (*model.Session, error) {
	var sess model.Session
	err := scanner.Scan(&sess.ID, &sess.SessionID, &sess.UserID, &sess.LastActivity)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

const sessionCols = `id, sessionid, userid, lastactivity`

// Create generates a new crypto-random session ID and persists the row.
// Session IDs rely on entropy alone; no collision check.
func (s *SessionStore) Create(userID string) (*model.Session, error) {
	sessionID, err := auth.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions (sessionid, userid, lastactivity) VALUES (?, ?, ?)`,
		sessionID, userID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s.GetBySessionID(sessionID)
}

func (s *SessionStore) GetBySessionID(sessionID string) (*model.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE sessionid = ?`, sessionID)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Touch refreshes the session's last-activity timestamp.
func (s *SessionStore) Touch(sessionID string) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET lastactivity = ? WHERE sessionid = ?`,
		time.Now().UTC(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// DeleteBySessionID removes a session. Deleting a session that no longer
// exists is not an error; logout is best-effort.
func (s *SessionStore) DeleteBySessionID(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE sessionid = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
