package domain

import "time"

// Role enumerates user privilege levels.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	CreatedAt    time.Time
}

// Rating is a user's score for a movie, 0.5 to 5.0 in half-point steps.
type Rating struct {
	UserID    int64
	MovieID   int64
	Value     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingAggregate summarizes all ratings for a movie.
type RatingAggregate struct {
	Average float64
	Count   int
}
