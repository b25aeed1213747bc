package models

import "time"

// App is a catalog entry describing one mediated provider app.
type App struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	IconURL     string    `json:"icon_url" db:"icon_url"`
	Category    string    `json:"category" db:"category"`
	Route       string    `json:"route" db:"route"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UserApp joins a user to a purchased (and optionally favorited) app.
type UserApp struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	AppID       string    `json:"app_id" db:"app_id"`
	IsFavorite  bool      `json:"is_favorite" db:"is_favorite"`
	PurchasedAt time.Time `json:"purchased_at" db:"purchased_at"`
}

// AppWithFlags decorates an App with the requesting user's relationship.
type AppWithFlags struct {
	App
	Purchased  bool `json:"purchased"`
	IsFavorite bool `json:"is_favorite"`
}
