package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	FullName     string
	Email        string
	Role         Role
	DepartmentID *string
	BaseSalary   decimal.Decimal // PKR
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

type Role string

const (
	RoleDeveloper Role = "Developer"
	RolePM        Role = "PM"
	RoleTeamLead  Role = "TeamLead"
	RoleManager   Role = "Manager"
	RoleBidder    Role = "Bidder"
	RoleAdmin     Role = "Admin"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)
