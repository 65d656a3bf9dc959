package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeAt(t *testing.T) {
	at := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday passed", time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC), 34},
		{"birthday today", time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), 34},
		{"birthday upcoming", time.Date(1990, 9, 1, 0, 0, 0, 0, time.UTC), 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAt(tt.dob, at))
		})
	}
}

func TestOppositeGender(t *testing.T) {
	assert.Equal(t, GenderFemale, OppositeGender(GenderMale))
	assert.Equal(t, GenderMale, OppositeGender(GenderFemale))
}

func TestDiscoveryFilterMatches(t *testing.T) {
	f := DiscoveryFilter{
		RequesterID: "me",
		Gender:      GenderFemale,
		FilterDob:   true,
		MinDob:      time.Date(1988, 6, 15, 0, 0, 0, 0, time.UTC),
		MaxDob:      time.Date(1999, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	inWindow := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, f.Matches(&User{ID: "me", Gender: GenderFemale, DateOfBirth: inWindow}), "requester excluded")
	assert.False(t, f.Matches(&User{ID: "x", Gender: GenderMale, DateOfBirth: inWindow}), "wrong gender")
	assert.True(t, f.Matches(&User{ID: "x", Gender: GenderFemale, DateOfBirth: inWindow}))

	tooOld := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	tooYoung := time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, f.Matches(&User{ID: "x", Gender: GenderFemale, DateOfBirth: tooOld}))
	assert.False(t, f.Matches(&User{ID: "x", Gender: GenderFemale, DateOfBirth: tooYoung}))

	// Window bounds are inclusive.
	assert.True(t, f.Matches(&User{ID: "x", Gender: GenderFemale, DateOfBirth: f.MinDob}))
	assert.True(t, f.Matches(&User{ID: "x", Gender: GenderFemale, DateOfBirth: f.MaxDob}))

	f.FilterDob = false
	assert.True(t, f.Matches(&User{ID: "x", Gender: GenderFemale, DateOfBirth: tooOld}), "window off when dob filtering disabled")
}

func TestMessageContainers(t *testing.T) {
	now := time.Now()
	msg := &Message{SenderID: "a", RecipientID: "b"}

	assert.True(t, msg.InContainer("b", ContainerInbox))
	assert.True(t, msg.InContainer("b", ContainerUnread))
	assert.True(t, msg.InContainer("b", ""), "unknown container behaves as unread")
	assert.True(t, msg.InContainer("a", ContainerOutbox))
	assert.False(t, msg.InContainer("a", ContainerInbox))
	assert.False(t, msg.InContainer("b", ContainerOutbox))

	msg.ReadAt = &now
	assert.False(t, msg.InContainer("b", ContainerUnread))
	assert.True(t, msg.InContainer("b", ContainerInbox))

	msg.RecipientDeleted = true
	assert.False(t, msg.InContainer("b", ContainerInbox))
	assert.True(t, msg.InContainer("a", ContainerOutbox))
}

func TestMessageVisibleTo(t *testing.T) {
	msg := &Message{SenderID: "a", RecipientID: "b"}

	assert.True(t, msg.VisibleTo("a"))
	assert.True(t, msg.VisibleTo("b"))
	assert.False(t, msg.VisibleTo("c"))

	msg.SenderDeleted = true
	assert.False(t, msg.VisibleTo("a"))
	assert.True(t, msg.VisibleTo("b"))
}

func TestNewUserSummary(t *testing.T) {
	u := &User{
		ID:          "u1",
		Username:    "lisa",
		KnownAs:     "Lisa",
		Gender:      GenderFemale,
		DateOfBirth: time.Now().AddDate(-30, 0, -1),
		City:        "Oslo",
		Country:     "Norway",
	}

	s := NewUserSummary(u, "https://assets.test/u1/main.jpg")
	assert.Equal(t, "u1", s.ID)
	assert.Equal(t, "Lisa", s.KnownAs)
	assert.Equal(t, 30, s.Age)
	assert.Equal(t, "https://assets.test/u1/main.jpg", s.PhotoURL)
}

func TestNewUserDetailPicksMainPhoto(t *testing.T) {
	u := &User{ID: "u1", Username: "lisa", DateOfBirth: time.Now().AddDate(-30, 0, -1)}
	photos := []*Photo{
		{ID: "p1", OwnerID: "u1", URL: "https://assets.test/p1.jpg"},
		{ID: "p2", OwnerID: "u1", URL: "https://assets.test/p2.jpg", IsMain: true},
	}

	d := NewUserDetail(u, photos)
	assert.Equal(t, "https://assets.test/p2.jpg", d.PhotoURL)
	assert.Len(t, d.Photos, 2)

	d = NewUserDetail(u, nil)
	require.NotNil(t, d.Photos)
	assert.Empty(t, d.Photos)
	assert.Empty(t, d.PhotoURL)
}

func TestNewMessageView(t *testing.T) {
	now := time.Now()
	msg := &Message{ID: "m1", SenderID: "a", RecipientID: "b", Content: "hi", SentAt: now}

	v := NewMessageView(msg,
		&User{ID: "a", KnownAs: "Alice"}, &User{ID: "b", KnownAs: "Bob"},
		"https://assets.test/a.jpg", "",
	)
	assert.Equal(t, "Alice", v.SenderKnownAs)
	assert.Equal(t, "Bob", v.RecipientKnownAs)
	assert.Equal(t, "https://assets.test/a.jpg", v.SenderPhotoURL)

	// Missing participants leave display fields empty rather than panicking.
	v = NewMessageView(msg, nil, nil, "", "")
	assert.Empty(t, v.SenderKnownAs)
	assert.Equal(t, "hi", v.Content)
}
