package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	Role      Role      `json:"role"`
	IsKicked  bool      `json:"isKicked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminStats 后台总览的三个总量
type AdminStats struct {
	TotalUser  int64 `json:"totalUser"`
	TotalBazar int64 `json:"totalBazar"`
	TotalMess  int64 `json:"totalMess"`
}
