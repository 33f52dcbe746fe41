package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, ErrInvalid)
}

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Username     string `gorm:"size:64;not null;index" json:"username"`
	Email        string `gorm:"size:191;not null;index" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Photo        string `gorm:"size:512" json:"photo"`
	Role         Role   `gorm:"size:16;not null;default:USER" json:"role"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	// FindActiveByUsername / FindActiveByEmail 忽略大小写
	FindActiveByUsername(ctx context.Context, username string) (*User, error)
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q ListQuery) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	HardDelete(ctx context.Context, id string) (bool, error)
}
