package model

import "time"

type Account struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"passwordHash"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Profile is the account view handed to clients.
type Profile struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

func (a Account) Profile() Profile {
	return Profile{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		ProfilePicture: a.ProfilePicture,
	}
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountUpdate changes the set fields. Name, email and password changes require
// CurrentPassword; the profile picture can be replaced or cleared without it.
type AccountUpdate struct {
	Name            Optional[string] `json:"name,omitzero"`
	Email           Optional[string] `json:"email,omitzero"`
	Password        Optional[string] `json:"password,omitzero"`
	ProfilePicture  Optional[string] `json:"profilePicture,omitzero"`
	CurrentPassword string           `json:"currentPassword,omitempty"`
}

func (u AccountUpdate) RequiresPassword() bool {
	return u.Name.Set || u.Email.Set || u.Password.Set
}

// Session is returned after registering or logging in.
type Session struct {
	Token   string  `json:"token,omitempty"`
	Profile Profile `json:"profile"`
	Offline bool    `json:"offline"`
}
