package models

import "time"

// UserSummary is the list-view projection of a user: enough for a result
// card, with age precomputed and the main photo resolved.
type UserSummary struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	KnownAs      string    `json:"known_as"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	PhotoURL     string    `json:"photo_url,omitempty"`
}

// UserDetail is the profile-view projection, including the photo set.
type UserDetail struct {
	UserSummary
	Introduction string   `json:"introduction"`
	LookingFor   string   `json:"looking_for"`
	Interests    string   `json:"interests"`
	Photos       []*Photo `json:"photos"`
}

// MessageView is a message decorated with participant display data for
// rendering a conversation without further lookups.
type MessageView struct {
	ID                string     `json:"id"`
	SenderID          string     `json:"sender_id"`
	SenderKnownAs     string     `json:"sender_known_as"`
	SenderPhotoURL    string     `json:"sender_photo_url,omitempty"`
	RecipientID       string     `json:"recipient_id"`
	RecipientKnownAs  string     `json:"recipient_known_as"`
	RecipientPhotoURL string     `json:"recipient_photo_url,omitempty"`
	Content           string     `json:"content"`
	SentAt            time.Time  `json:"sent_at"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
}

// NewUserSummary maps a user to its list view. mainPhotoURL may be empty
// when the user has no approved main photo.
func NewUserSummary(u *User, mainPhotoURL string) UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		KnownAs:      u.KnownAs,
		Age:          u.Age(),
		Gender:       u.Gender,
		City:         u.City,
		Country:      u.Country,
		CreatedAt:    u.CreatedAt,
		LastActiveAt: u.LastActiveAt,
		PhotoURL:     mainPhotoURL,
	}
}

// NewUserDetail maps a user and its visible photo set to the profile view.
// The main photo URL is taken from the photo set itself.
func NewUserDetail(u *User, photos []*Photo) UserDetail {
	var mainURL string
	for _, p := range photos {
		if p.IsMain {
			mainURL = p.URL
			break
		}
	}
	if photos == nil {
		photos = []*Photo{}
	}
	return UserDetail{
		UserSummary:  NewUserSummary(u, mainURL),
		Introduction: u.Introduction,
		LookingFor:   u.LookingFor,
		Interests:    u.Interests,
		Photos:       photos,
	}
}

// NewMessageView maps a message plus both participants' display data.
func NewMessageView(m *Message, sender, recipient *User, senderPhotoURL, recipientPhotoURL string) MessageView {
	v := MessageView{
		ID:                m.ID,
		SenderID:          m.SenderID,
		SenderPhotoURL:    senderPhotoURL,
		RecipientID:       m.RecipientID,
		RecipientPhotoURL: recipientPhotoURL,
		Content:           m.Content,
		SentAt:            m.SentAt,
		ReadAt:            m.ReadAt,
	}
	if sender != nil {
		v.SenderKnownAs = sender.KnownAs
	}
	if recipient != nil {
		v.RecipientKnownAs = recipient.KnownAs
	}
	return v
}
