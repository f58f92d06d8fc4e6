package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session binds an issued API token to a live portal session. Sessions
// live in Redis with a TTL; portal credentials themselves are never
// stored.
type Session struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	SchoolName  string    `json:"school_name"`
	PortalToken string    `json:"portal_token"`
	CreatedAt   time.Time `json:"created_at"`
}

// JWTClaims is the token payload referencing a session.
type JWTClaims struct {
	SessionID string `json:"sid"`
	StudentID string `json:"student_id"`
	jwt.RegisteredClaims
}
