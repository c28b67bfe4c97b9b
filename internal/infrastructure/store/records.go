package store

import (
	"time"

	"github.com/conectar/console-gateway/internal/core/domain"
)

// userRecord is the durable form of a user. Unlike domain.User it carries the
// password hash.
type userRecord struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	IsActive     bool        `json:"isActive"`
	PasswordHash string      `json:"passwordHash,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func toUserRecords(users []domain.User) []userRecord {
	out := make([]userRecord, 0, len(users))
	for _, u := range users {
		out = append(out, userRecord{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         u.Role,
			IsActive:     u.IsActive,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}
	return out
}

func fromUserRecords(recs []userRecord) []domain.User {
	out := make([]domain.User, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.User{
			ID:           r.ID,
			Name:         r.Name,
			Email:        r.Email,
			Role:         r.Role,
			IsActive:     r.IsActive,
			PasswordHash: r.PasswordHash,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out
}
