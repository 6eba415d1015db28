package model

import "time"

type Roster struct {
	ID          int64     `json:"-"`
	RosterID    string    `json:"rosterid"`
	UserID      string    `json:"userid"`
	RosterName  string    `json:"rostername"`
	FactionID   string    `json:"factionid"`
	KillTeamID  string    `json:"killteamid"`
	Notes       string    `json:"notes"`
	PortraitURL string    `json:"portraiturl"`
	ViewCount   int64     `json:"viewcount"`
	CreatedDate time.Time `json:"createddate"`

	// Populated only when roster detail is requested.
	Operatives []RosterOperative `json:"operatives,omitempty"`
	Equipments []RosterEquipment `json:"equipments,omitempty"`
}

type RosterOperative struct {
	RosterOpID int64  `json:"rosteropid"`
	RosterID   string `json:"rosterid"`
	OpName     string `json:"opname"`
	OpType     string `json:"optype"`
	Wounds     int    `json:"wounds"`
	CurWounds  int    `json:"curwounds"`
	OpOrder    string `json:"oporder"`
	Seq        int    `json:"seq"`
}

type RosterEquipment struct {
	ID       int64  `json:"id"`
	RosterID string `json:"rosterid"`
	EqID     string `json:"eqid"`
	EqName   string `json:"eqname"`
	Count    int    `json:"count"`
}
