package models

import "time"

type ChoreStatus string

const (
	ChoreStatusTodo ChoreStatus = "TODO"
	ChoreStatusDone ChoreStatus = "DONE"
)

type ChoreCategory string

const (
	CategoryCleaning ChoreCategory = "CLEANING"
	CategoryCooking  ChoreCategory = "COOKING"
	CategoryHomework ChoreCategory = "HOMEWORK"
	CategoryBaking   ChoreCategory = "BAKING"
	CategoryTeaching ChoreCategory = "TEACHING"
	CategoryOther    ChoreCategory = "OTHER"
)

type TravelStatus string

const (
	TravelNotPlanned TravelStatus = "NOT_PLANNED"
	TravelPlanned    TravelStatus = "PLANNED"
	TravelDone       TravelStatus = "DONE"
)

// NextTravelStatus advances a travel target along the fixed planning cycle,
// wrapping back to NOT_PLANNED after DONE.
func NextTravelStatus(s TravelStatus) TravelStatus {
	switch s {
	case TravelNotPlanned:
		return TravelPlanned
	case TravelPlanned:
		return TravelDone
	default:
		return TravelNotPlanned
	}
}

type Severity string

const (
	SeverityMild     Severity = "MILD"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
)

type EmotionalClimate string

const (
	ClimateSunny    EmotionalClimate = "SUNNY"
	ClimateBreezy   EmotionalClimate = "BREEZY"
	ClimateOvercast EmotionalClimate = "OVERCAST"
	ClimateStormy   EmotionalClimate = "STORMY"
	ClimateStarry   EmotionalClimate = "STARRY"
)

// ValidClimate reports whether s is one of the five climate values the
// oracle is allowed to return.
func ValidClimate(s EmotionalClimate) bool {
	switch s {
	case ClimateSunny, ClimateBreezy, ClimateOvercast, ClimateStormy, ClimateStarry:
		return true
	}
	return false
}

// FamilyMember is a citizen of the household. Points is the Star Gold
// balance and never goes negative.
type FamilyMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
	Points int    `json:"points"`
}

// Chore is a quest awarding points on completion. CompletedByID records who
// actually completed the chore so that un-toggling debits the right member
// even after a reassignment.
type Chore struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Points        int           `json:"points"`
	AssignedToID  string        `json:"assigned_to_id"`
	CompletedByID string        `json:"completed_by_id,omitempty"`
	Status        ChoreStatus   `json:"status"`
	Category      ChoreCategory `json:"category"`
}

type TravelTarget struct {
	ID       string       `json:"id"`
	Location string       `json:"location"`
	Status   TravelStatus `json:"status"`
}

// Reward is a catalog entry. The catalog is static; redemption only debits
// points and leaves no record on the reward itself.
type Reward struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Cost        int    `json:"cost"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type GrievanceComment struct {
	ID        string    `json:"id"`
	FromID    string    `json:"from_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Grievance is a filed interpersonal concern with a threaded discussion.
// Comments are append-only and Resolved latches one way.
type Grievance struct {
	ID         string             `json:"id"`
	FromID     string             `json:"from_id"`
	AgainstID  string             `json:"against_id,omitempty"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	Severity   Severity           `json:"severity"`
	Timestamp  time.Time          `json:"timestamp"`
	IsResolved bool               `json:"is_resolved"`
	Comments   []GrievanceComment `json:"comments"`
}

// KingdomReport is the oracle's narrative summary. It is transient: never
// persisted, replaced wholesale by each generation.
type KingdomReport struct {
	Summary          string           `json:"summary"`
	HeroOfTheWeek    string           `json:"heroOfTheWeek"`
	EfficiencyScore  int              `json:"efficiencyScore"`
	EncouragingNudge string           `json:"encouragingNudge"`
	RoyalMediation   string           `json:"royalMediation,omitempty"`
	EmotionalClimate EmotionalClimate `json:"emotionalClimate"`
	SocialInsight    string           `json:"socialInsight"`
}

// Snapshot is the durable aggregate: everything that survives a restart.
type Snapshot struct {
	KingdomName   string         `json:"kingdom_name"`
	Members       []FamilyMember `json:"members"`
	Chores        []Chore        `json:"chores"`
	Grievances    []Grievance    `json:"grievances"`
	TravelTargets []TravelTarget `json:"travel_targets"`
}

// MemberByID returns the member with the given id, or nil when the lookup
// misses. Callers must treat a miss as "unknown", never as an error.
func (s *Snapshot) MemberByID(id string) *FamilyMember {
	for i := range s.Members {
		if s.Members[i].ID == id {
			return &s.Members[i]
		}
	}
	return nil
}

// MemberName resolves an id to a display name, with a fallback for unknown
// or empty references.
func (s *Snapshot) MemberName(id, fallback string) string {
	if m := s.MemberByID(id); m != nil {
		return m.Name
	}
	return fallback
}
