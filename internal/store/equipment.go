package store

import (
	"database/sql"
	"fmt"

	"github.com/ktdash/ktdash/internal/model"
)

type EquipmentStore struct {
	db *sql.DB
}

func NewEquipmentStore(db *sql.DB) *EquipmentStore {
	return &EquipmentStore{db: db}
}

func (s *EquipmentStore) ListByRosterID(rosterID string) ([]model.RosterEquipment, error) {
	rows, err := s.db.Query(
		`SELECT id, rosterid, eqid, eqname, count FROM roster_equipment WHERE rosterid = ? ORDER BY id`,
		rosterID,
	)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var items []model.RosterEquipment
	for rows.Next() {
		var eq model.RosterEquipment
		if err := rows.Scan(&eq.ID, &eq.RosterID, &eq.EqID, &eq.EqName, &eq.Count); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		items = append(items, eq)
	}
	return items, rows.Err()
}

// ReplaceForRoster swaps the roster's equipment selection atomically.
func (s *EquipmentStore) ReplaceForRoster(rosterID string, items []model.RosterEquipment) ([]model.RosterEquipment, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM roster_equipment WHERE rosterid = ?`, rosterID); err != nil {
		return nil, fmt.Errorf("clear equipment: %w", err)
	}
	for _, eq := range items {
		count := eq.Count
		if count < 1 {
			count = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO roster_equipment (rosterid, eqid, eqname, count) VALUES (?, ?, ?, ?)`,
			rosterID, eq.EqID, eq.EqName, count,
		); err != nil {
			return nil, fmt.Errorf("insert equipment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.ListByRosterID(rosterID)
}
