package handler

import "time"

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// --- Users ---

// userResponse is the transport view of a profile. Intentionally separate
// from domain.User so the JSON contract is not coupled to internal changes.
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Blocked   bool      `json:"blocked"`
	PlanID    string    `json:"plan_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin member"`
	PlanID   string `json:"plan_id"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role"  validate:"omitempty,oneof=admin member"`
}

type blockUserRequest struct {
	Blocked bool `json:"blocked"`
}

type assignPlanRequest struct {
	PlanID string `json:"plan_id"`
}

type listUsersResponse struct {
	Data []userResponse `json:"data"`
}

// --- Plans ---

type mealRequest struct {
	Name  string   `json:"name"  validate:"required"`
	Foods []string `json:"foods" validate:"required,min=1"`
}

type planRequest struct {
	Title         string        `json:"title"          validate:"required"`
	Description   string        `json:"description"`
	StartDate     time.Time     `json:"start_date"     validate:"required"`
	EndDate       time.Time     `json:"end_date"       validate:"required"`
	CalorieTarget int           `json:"calorie_target" validate:"required,min=1"`
	ProteinTarget int           `json:"protein_target" validate:"min=0"`
	CarbsTarget   int           `json:"carbs_target"   validate:"min=0"`
	FatTarget     int           `json:"fat_target"     validate:"min=0"`
	Meals         []mealRequest `json:"meals"          validate:"dive"`
}

// --- Community feed ---

type createPostRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type likeResponse struct {
	Liked bool `json:"liked"`
}
