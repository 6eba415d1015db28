package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ktdash/ktdash/internal/model"
)

type RosterStore struct {
	db *sql.DB
}

func NewRosterStore(db *sql.DB) *RosterStore {
	return &RosterStore{db: db}
}

func scanRoster(scanner interface{ Scan(...any) error }) (*model.Roster, error) {
	var ro model.Roster
	err := scanner.Scan(&ro.ID, &ro.RosterID, &ro.UserID, &ro.RosterName, &ro.FactionID,
		&ro.KillTeamID, &ro.Notes, &ro.PortraitURL, &ro.ViewCount, &ro.CreatedDate)
	if err != nil {
		return nil, err
	}
	return &ro, nil
}

const rosterCols = `id, rosterid, userid, rostername, factionid, killteamid, notes, portraiturl, viewcount, createddate`

func (s *RosterStore) Create(rosterID, userID, rosterName, factionID, killteamID string) (*model.Roster, error) {
	_, err := s.db.Exec(
		`INSERT INTO rosters (rosterid, userid, rostername, factionid, killteamid, createddate)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rosterID, userID, rosterName, factionID, killteamID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert roster: %w", err)
	}
	return s.GetByRosterID(rosterID)
}

func (s *RosterStore) GetByRosterID(rosterID string) (*model.Roster, error) {
	row := s.db.QueryRow(`SELECT `+rosterCols+` FROM rosters WHERE rosterid = ?`, rosterID)
	ro, err := scanRoster(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get roster: %w", err)
	}
	return ro, nil
}

func (s *RosterStore) ListByUserID(userID string) ([]model.Roster, error) {
	rows, err := s.db.Query(
		`SELECT `+rosterCols+` FROM rosters WHERE userid = ? ORDER BY createddate DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rosters: %w", err)
	}
	defer rows.Close()

	var rosters []model.Roster
	for rows.Next() {
		ro, err := scanRoster(rows)
		if err != nil {
			return nil, fmt.Errorf("scan roster: %w", err)
		}
		rosters = append(rosters, *ro)
	}
	return rosters, rows.Err()
}

func (s *RosterStore) Update(rosterID, rosterName, factionID, killteamID, notes, portraitURL string) (*model.Roster, error) {
	_, err := s.db.Exec(
		`UPDATE rosters SET rostername = ?, factionid = ?, killteamid = ?, notes = ?, portraiturl = ?
		 WHERE rosterid = ?`,
		rosterName, factionID, killteamID, notes, portraitURL, rosterID,
	)
	if err != nil {
		return nil, fmt.Errorf("update roster: %w", err)
	}
	return s.GetByRosterID(rosterID)
}

// Delete removes a roster; operatives and equipment go with it via
// cascading foreign keys.
func (s *RosterStore) Delete(rosterID string) error {
	_, err := s.db.Exec(`DELETE FROM rosters WHERE rosterid = ?`, rosterID)
	if err != nil {
		return fmt.Errorf("delete roster: %w", err)
	}
	return nil
}

// RandomRosterID picks a roster at random for the spotlight feature.
// Returns "" when no rosters exist.
func (s *RosterStore) RandomRosterID() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT rosterid FROM rosters ORDER BY RANDOM() LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("random roster id: %w", err)
	}
	return id, nil
}

func (s *RosterStore) IncrementViewCount(rosterID string) error {
	_, err := s.db.Exec(`UPDATE rosters SET viewcount = viewcount + 1 WHERE rosterid = ?`, rosterID)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// RosterIDExists is the collision check for short-ID generation.
func (s *RosterStore) RosterIDExists(rosterID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM rosters WHERE rosterid = ?`, rosterID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check rosterid: %w", err)
	}
	return n > 0, nil
}
