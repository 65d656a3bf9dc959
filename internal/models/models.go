package models

import "time"

// Gender values recognized by discovery filtering.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// RoleMember is the role every registered user starts with.
const RoleMember = "Member"

// User represents a registered member.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	KnownAs      string    `json:"known_as"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Introduction string    `json:"introduction"`
	LookingFor   string    `json:"looking_for"`
	Interests    string    `json:"interests"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Photo represents a single photo in a user's set. At most one photo per
// owner has IsMain set. ExternalRef identifies the externally hosted asset;
// it is empty for photos that were never uploaded to the asset host.
type Photo struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	URL         string    `json:"url"`
	IsMain      bool      `json:"is_main"`
	IsApproved  bool      `json:"is_approved"`
	ExternalRef string    `json:"-"`
	AddedAt     time.Time `json:"added_at"`
}

// Like is a directed edge from liker to likee. The ordered pair is the
// identity; the edge is immutable once created.
type Like struct {
	LikerID string `json:"liker_id"`
	LikeeID string `json:"likee_id"`
}

// Message is a private message between two users. Each side can hide the
// message independently; the row is erased once both sides have deleted it.
type Message struct {
	ID               string     `json:"id"`
	SenderID         string     `json:"sender_id"`
	RecipientID      string     `json:"recipient_id"`
	Content          string     `json:"content"`
	SentAt           time.Time  `json:"sent_at"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	SenderDeleted    bool       `json:"-"`
	RecipientDeleted bool       `json:"-"`
}

// Mailbox containers selecting which of a user's messages to list.
const (
	ContainerInbox  = "Inbox"
	ContainerOutbox = "Outbox"
	ContainerUnread = "Unread"
)

// VisibleTo reports whether the message still appears in any of the given
// participant's views.
func (m *Message) VisibleTo(userID string) bool {
	if m.SenderID == userID {
		return !m.SenderDeleted
	}
	if m.RecipientID == userID {
		return !m.RecipientDeleted
	}
	return false
}

// InContainer reports whether the message belongs to the named mailbox
// container of userID. Unknown containers behave as Unread, matching the
// default listing.
func (m *Message) InContainer(userID, container string) bool {
	switch container {
	case ContainerInbox:
		return m.RecipientID == userID && !m.RecipientDeleted
	case ContainerOutbox:
		return m.SenderID == userID && !m.SenderDeleted
	default:
		return m.RecipientID == userID && !m.RecipientDeleted && m.ReadAt == nil
	}
}

// Age returns the user's age in whole years as of today.
func (u *User) Age() int {
	return AgeAt(u.DateOfBirth, time.Now())
}

// AgeAt returns the number of whole years between dob and the given date.
func AgeAt(dob, at time.Time) int {
	age := at.Year() - dob.Year()
	if dob.AddDate(age, 0, 0).After(at) {
		age--
	}
	return age
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
