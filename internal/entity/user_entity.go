package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProvider links a user to an external identity provider account.
type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}
