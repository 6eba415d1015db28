package store

import (
	"database/sql"
	"fmt"

	"github.com/ktdash/ktdash/internal/model"
)

type OperativeStore struct {
	db *sql.DB
}

func NewOperativeStore(db *sql.DB) *OperativeStore {
	return &OperativeStore{db: db}
}

func scanOperative(scanner interface{ Scan(...any) error }) (*model.RosterOperative, error) {
	var op model.RosterOperative
	err := scanner.Scan(&op.RosterOpID, &op.RosterID, &op.OpName, &op.OpType,
		&op.Wounds, &op.CurWounds, &op.OpOrder, &op.Seq)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

const operativeCols = `rosteropid, rosterid, opname, optype, wounds, curwounds, oporder, seq`

// Create appends an operative to the roster. New operatives start at full
// wounds, concealed, and sort last.
func (s *OperativeStore) Create(rosterID, opName, opType string, wounds int) (*model.RosterOperative, error) {
	result, err := s.db.Exec(
		`INSERT INTO roster_operatives (rosterid, opname, optype, wounds, curwounds, oporder, seq)
		 VALUES (?, ?, ?, ?, ?, 'conceal',
		         (SELECT COALESCE(MAX(seq), 0) + 1 FROM roster_operatives WHERE rosterid = ?))`,
		rosterID, opName, opType, wounds, wounds, rosterID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert operative: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *OperativeStore) GetByID(rosterOpID int64) (*model.RosterOperative, error) {
	row := s.db.QueryRow(`SELECT `+operativeCols+` FROM roster_operatives WHERE rosteropid = ?`, rosterOpID)
	op, err := scanOperative(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get operative: %w", err)
	}
	return op, nil
}

func (s *OperativeStore) ListByRosterID(rosterID string) ([]model.RosterOperative, error) {
	rows, err := s.db.Query(
		`SELECT `+operativeCols+` FROM roster_operatives WHERE rosterid = ? ORDER BY seq, rosteropid`,
		rosterID,
	)
	if err != nil {
		return nil, fmt.Errorf("list operatives: %w", err)
	}
	defer rows.Close()

	var ops []model.RosterOperative
	for rows.Next() {
		op, err := scanOperative(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operative: %w", err)
		}
		ops = append(ops, *op)
	}
	return ops, rows.Err()
}

func (s *OperativeStore) Update(rosterOpID int64, opName string, curWounds int, opOrder string, seq int) (*model.RosterOperative, error) {
	_, err := s.db.Exec(
		`UPDATE roster_operatives SET opname = ?, curwounds = ?, oporder = ?, seq = ? WHERE rosteropid = ?`,
		opName, curWounds, opOrder, seq, rosterOpID,
	)
	if err != nil {
		return nil, fmt.Errorf("update operative: %w", err)
	}
	return s.GetByID(rosterOpID)
}

func (s *OperativeStore) Delete(rosterOpID int64) error {
	_, err := s.db.Exec(`DELETE FROM roster_operatives WHERE rosteropid = ?`, rosterOpID)
	if err != nil {
		return fmt.Errorf("delete operative: %w", err)
	}
	return nil
}
