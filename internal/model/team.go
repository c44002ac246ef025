package model

import "time"

// Team roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Team groups users who share a match history.
type Team struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required,min=2,max=80"`
	OwnerID      string    `json:"ownerId"`
	JoinCodeHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TeamMember is one user's membership of a team.
type TeamMember struct {
	TeamID   string    `json:"teamId"`
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
