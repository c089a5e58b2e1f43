package models

import "time"

// Tag labels recipes. Every tag belongs to exactly one user.
type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	UserID    string    `json:"-" gorm:"index;type:varchar(36);not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Ingredient is used in recipes. Same ownership rules as Tag.
type Ingredient struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	UserID    string    `json:"-" gorm:"index;type:varchar(36);not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Recipe is owned by the user that created it and references any number of
// the owner's tags and ingredients.
type Recipe struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)"`
	UserID      string       `gorm:"index;type:varchar(36);not null"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE;"`
	Title       string       `gorm:"type:varchar(255);not null"`
	TimeMinutes int          `gorm:"not null"`
	Price       Price        `gorm:"type:numeric(5,2);not null"`
	Link        string       `gorm:"type:varchar(255);not null;default:''"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TagIDs returns the ids of the recipe's tags in their loaded order.
func (r *Recipe) TagIDs() []string {
	ids := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IngredientIDs returns the ids of the recipe's ingredients in their loaded order.
func (r *Recipe) IngredientIDs() []string {
	ids := make([]string, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}
