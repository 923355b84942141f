package entity

import (
	"strconv"
	"strings"
)

// guestPrefix marks ids minted for callers without Telegram credentials.
const guestPrefix = "guest:"

// UserID identifies the owner of ideas and credits. Telegram users map to
// "tg:<numeric id>".
type UserID string

// User is the authenticated caller.
type User struct {
	ID        UserID `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// Guest is the user behind an unauthenticated browser session. token is the
// session's opaque id; each token is a separate owner of ideas and credits.
func Guest(token string) User {
	return User{ID: UserID(guestPrefix + strings.TrimSpace(token)), FirstName: "Guest"}
}

// TelegramUserID builds the UserID for a Telegram account.
func TelegramUserID(id int64) UserID {
	return UserID("tg:" + strconv.FormatInt(id, 10))
}

func NormalizeUserID(raw string) UserID {
	return UserID(strings.TrimSpace(raw))
}

func (id UserID) String() string {
	return strings.TrimSpace(string(id))
}

func (id UserID) IsZero() bool {
	return id.String() == ""
}

func (id UserID) IsGuest() bool {
	return strings.HasPrefix(id.String(), guestPrefix)
}

// DisplayName prefers the full name, then the username, then the id.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.ID.String()
}
