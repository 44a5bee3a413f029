package domain

import "time"

// Meal is a named meal slot inside a nutrition plan.
type Meal struct {
	Name  string   `json:"name" bson:"name"`
	Foods []string `json:"foods" bson:"foods"`
}

// Plan is a nutrition plan an admin can author and assign to users.
type Plan struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Title         string    `json:"title" bson:"title"`
	Description   string    `json:"description" bson:"description"`
	StartDate     time.Time `json:"start_date" bson:"start_date"`
	EndDate       time.Time `json:"end_date" bson:"end_date"`
	CalorieTarget int       `json:"calorie_target" bson:"calorie_target"`
	ProteinTarget int       `json:"protein_target" bson:"protein_target"`
	CarbsTarget   int       `json:"carbs_target" bson:"carbs_target"`
	FatTarget     int       `json:"fat_target" bson:"fat_target"`
	Meals         []Meal    `json:"meals" bson:"meals"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}
