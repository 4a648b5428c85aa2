package model

import "time"

// Planner is a staff account allowed to edit the schedule.
type Planner struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlannerLoginRequest is the payload for planner authentication.
type PlannerLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// PlannerLoginResponse is returned after a successful planner login.
type PlannerLoginResponse struct {
	Token   string  `json:"token"`
	Planner Planner `json:"planner"`
}
