package league

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// League is a private challenge competition among friends.
type League struct {
	ID              string
	Name            string
	Slug            string
	AdminUserID     string
	Code            string
	GameVersion     string
	MaxParticipants int
	EndsAt          time.Time
	Status          Status
	Challenges      []Selection
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

func (l League) IsActive() bool {
	return l.Status == StatusActive
}

// Selection is a catalog challenge picked for a league. Points may differ
// from the catalog default.
type Selection struct {
	ChallengeID string
	Points      int
}

type Participant struct {
	LeagueID string
	UserID   string
	RunID    *string
	JoinedAt time.Time
}

func (p Participant) LinkedRunID() string {
	if p.RunID == nil {
		return ""
	}
	return *p.RunID
}

type Invitation struct {
	LeagueID    string
	UserID      string
	InvitedBy   string
	Status      InvitationStatus
	CreatedAt   time.Time
	RespondedAt *time.Time
}

// RunLink is an active league slot currently holding a run.
type RunLink struct {
	LeagueID string
	UserID   string
	RunID    string
}
