package dto

import (
	"time"

	"user_backend/internal/feature/users/domain/entity"
)

// TimestampLayout is the textual form of created_at and updated_at.
const TimestampLayout = time.RFC3339Nano

// UserRes is the serialized form of a user returned by the API.
// The password is never included.
type UserRes struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ErrorRes is the body of every non-2xx response.
type ErrorRes struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewUserResponse serializes a user. Timestamps are rendered in UTC.
func NewUserResponse(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: formatTimestamp(u.CreatedAt),
		UpdatedAt: formatTimestamp(u.UpdatedAt),
	}
}

// NewUserListResponse serializes users in order. A nil or empty input yields an empty, non-nil slice.
func NewUserListResponse(users []entity.User) []UserRes {
	out := make([]UserRes, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
