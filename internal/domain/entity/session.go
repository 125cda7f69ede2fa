package entity

import "time"

// StoredSession is the persisted form of the backend auth session
type StoredSession struct {
	Name         string    `bson:"_id" json:"name"`
	Email        string    `bson:"email" json:"email"`
	AccessToken  string    `bson:"accessToken" json:"access_token"`
	RefreshToken string    `bson:"refreshToken" json:"refresh_token"`
	UserRole     string    `bson:"userRole" json:"user_role"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updated_at"`
}

// LoginResponse is returned by /auth/login
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserRole     string `json:"user_role"`
}
