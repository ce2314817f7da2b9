package models

import "time"

// Reaction keys supported on a confession. The set is fixed; counters only grow.
const (
	ReactionLaugh   = "laugh"
	ReactionSkull   = "skull"
	ReactionShocked = "shocked"
	ReactionCry     = "cry"
)

// Poll options supported on a confession.
const (
	PollYou  = "you"
	PollThem = "them"
	PollBoth = "both"
)

// ReactionKeys lists the allowed reaction counter keys.
var ReactionKeys = []string{ReactionLaugh, ReactionSkull, ReactionShocked, ReactionCry}

// PollKeys lists the allowed poll counter keys.
var PollKeys = []string{PollYou, PollThem, PollBoth}

// Confession represents an anonymous feed post with its generated roast,
// reaction counters and poll counters. Counters are stored as dedicated
// columns so increments can run as single atomic UPDATE expressions instead
// of read-modify-write on a JSON blob.
type Confession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	Tag             string    `gorm:"size:64;not null;index" json:"tag"`
	Roast           string    `gorm:"type:text" json:"roast"`
	ReactionLaugh   int64     `gorm:"not null;default:0" json:"reaction_laugh"`
	ReactionSkull   int64     `gorm:"not null;default:0" json:"reaction_skull"`
	ReactionShocked int64     `gorm:"not null;default:0" json:"reaction_shocked"`
	ReactionCry     int64     `gorm:"not null;default:0" json:"reaction_cry"`
	PollYou         int64     `gorm:"not null;default:0" json:"poll_you"`
	PollThem        int64     `gorm:"not null;default:0" json:"poll_them"`
	PollBoth        int64     `gorm:"not null;default:0" json:"poll_both"`
	UserID          string    `gorm:"size:64;index" json:"user_id,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	ExpiresAt       time.Time `gorm:"index;not null" json:"expires_at"`
	Comments        []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"comments,omitempty"`
}

// Expired reports whether the confession has passed its expiry at the reference time.
func (c Confession) Expired(reference time.Time) bool {
	return !reference.Before(c.ExpiresAt)
}

// Reactions returns the reaction counters keyed by reaction name.
func (c Confession) Reactions() map[string]int64 {
	return map[string]int64{
		ReactionLaugh:   c.ReactionLaugh,
		ReactionSkull:   c.ReactionSkull,
		ReactionShocked: c.ReactionShocked,
		ReactionCry:     c.ReactionCry,
	}
}

// Poll returns the poll counters keyed by option name.
func (c Confession) Poll() map[string]int64 {
	return map[string]int64{
		PollYou:  c.PollYou,
		PollThem: c.PollThem,
		PollBoth: c.PollBoth,
	}
}

// ReactionColumn maps a reaction key to its database column, or "" if unknown.
func ReactionColumn(key string) string {
	switch key {
	case ReactionLaugh:
		return "reaction_laugh"
	case ReactionSkull:
		return "reaction_skull"
	case ReactionShocked:
		return "reaction_shocked"
	case ReactionCry:
		return "reaction_cry"
	default:
		return ""
	}
}

// PollColumn maps a poll option to its database column, or "" if unknown.
func PollColumn(option string) string {
	switch option {
	case PollYou:
		return "poll_you"
	case PollThem:
		return "poll_them"
	case PollBoth:
		return "poll_both"
	default:
		return ""
	}
}
