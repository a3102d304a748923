package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BackendUser is the user record returned by the login collaborator.
type BackendUser struct {
	ID          string  `json:"id"`
	ZohoUserID  string  `json:"zohoUserId"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	Photo       *string `json:"photo"`
	ManagerID   string  `json:"managerId,omitempty"`
}

// Identity is the signed-in employee as held by a session.
type Identity struct {
	ID          string `json:"id"`
	ZohoUserID  string `json:"zohoUserId,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar,omitempty"`
	Role        Role   `json:"role"`
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department,omitempty"`
	Status      string `json:"status,omitempty"`
	Photo       string `json:"photo,omitempty"`
	ManagerID   string `json:"managerId,omitempty"`
}

func IdentityFromBackend(user BackendUser) Identity {
	return Identity{
		ID:          user.ID,
		ZohoUserID:  user.ZohoUserID,
		Name:        user.Name,
		Email:       user.Email,
		Avatar:      Initials(user.Name),
		Role:        MapBackendRole(user.Role),
		Designation: deref(user.Designation),
		Department:  deref(user.Department),
		Status:      user.Status,
		Photo:       deref(user.Photo),
		ManagerID:   user.ManagerID,
	}
}

// Initials takes the first letter of each word, upper-cased, at most two letters.
func Initials(name string) string {
	var b strings.Builder
	count := 0
	for _, part := range strings.Split(name, " ") {
		if part == "" || count == 2 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		count++
	}
	return b.String()
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
