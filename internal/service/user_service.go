package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/pkg/utils"
)

type UserService struct {
	tx    domain.Transactor
	users domain.UserRepository
	jwt   *auth.JWTer
	life  lifecycle[domain.User, *domain.User]
}

func NewUserService(tx domain.Transactor, users domain.UserRepository, jwt *auth.JWTer, now Clock) *UserService {
	return &UserService{
		tx: tx, users: users, jwt: jwt,
		life: lifecycle[domain.User, *domain.User]{what: "user", store: users, now: now},
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Photo    string
}

type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Photo    *string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// validUsername 登录按是否含 @ 区分邮箱与用户名
func validUsername(v string) (string, error) {
	v, err := required("username", v)
	if err != nil {
		return "", err
	}
	if strings.Contains(v, "@") {
		return "", fmt.Errorf("username must not contain '@': %w", domain.ErrInvalid)
	}
	return v, nil
}

// checkUnique selfID 非空时忽略自身
func (s *UserService) checkUnique(ctx context.Context, username, email, selfID string) error {
	if username != "" {
		u, err := s.users.FindActiveByUsername(ctx, username)
		if err != nil {
			return err
		}
		if u != nil && u.ID != selfID {
			return fmt.Errorf("username %q already taken: %w", username, domain.ErrConflict)
		}
	}
	if email != "" {
		u, err := s.users.FindActiveByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u != nil && u.ID != selfID {
			return fmt.Errorf("email %q already registered: %w", email, domain.ErrConflict)
		}
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleUser)
}

// CreateAdmin 管理命令行使用
func (s *UserService) CreateAdmin(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	username, err := validUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := required("email", strings.ToLower(in.Email))
	if err != nil {
		return nil, err
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", domain.ErrInvalid)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Photo:        strings.TrimSpace(in.Photo),
		Role:         role,
		Lifecycle:    domain.ActiveLifecycle(),
	}
	err = s.tx.Tx(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, username, email, ""); err != nil {
			return err
		}
		return s.users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Login login 可以是用户名或邮箱
func (s *UserService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	login = strings.TrimSpace(login)
	var (
		u   *domain.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.users.FindActiveByEmail(ctx, login)
	} else {
		u, err = s.users.FindActiveByUsername(ctx, login)
	}
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	tok, exp, err := s.jwt.Issue(auth.Principal{UserID: u.ID, Username: u.Username, Role: string(u.Role)})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: tok, ExpiresAt: exp, User: u}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.life.get(ctx, id)
}

func (s *UserService) List(ctx context.Context, p domain.Pagination, search string, includeDeleted bool) (domain.Page[domain.User], error) {
	q := listQuery(p, search, includeDeleted)
	items, total, err := s.users.List(ctx, q)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(items, q.Pagination, total), nil
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	var out *domain.User
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		u, err := s.life.get(ctx, id)
		if err != nil {
			return err
		}
		var username, email string
		if in.Username != nil {
			if username, err = validUsername(*in.Username); err != nil {
				return err
			}
		}
		if in.Email != nil {
			if email, err = required("email", strings.ToLower(*in.Email)); err != nil {
				return err
			}
		}
		if err := s.checkUnique(ctx, username, email, u.ID); err != nil {
			return err
		}
		if username != "" {
			u.Username = username
		}
		if email != "" {
			u.Email = email
		}
		set(&u.Photo, in.Photo)
		if in.Password != nil {
			if len(*in.Password) < 6 {
				return fmt.Errorf("password must be at least 6 characters: %w", domain.ErrInvalid)
			}
			if u.PasswordHash, err = utils.HashPassword(*in.Password); err != nil {
				return err
			}
		}
		out = u
		return s.users.Update(ctx, u)
	})
	return out, err
}

func (s *UserService) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	u, err := s.life.get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Promote 按用户名提升为管理员
func (s *UserService) Promote(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", username)
	}
	return s.ChangeRole(ctx, u.ID, domain.RoleAdmin)
}

// SoftDelete 本人或管理员
func (s *UserService) SoftDelete(ctx context.Context, p *auth.Principal, id string) error {
	if !p.Owns(id) {
		return fmt.Errorf("cannot delete another user: %w", domain.ErrForbidden)
	}
	return s.life.softDelete(ctx, id)
}

func (s *UserService) Restore(ctx context.Context, id string) (*domain.User, error) {
	var out *domain.User
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		u, err := s.life.restore(ctx, id, func(u *domain.User) error {
			return s.checkUnique(ctx, u.Username, u.Email, u.ID)
		})
		out = u
		return err
	})
	return out, err
}

func (s *UserService) HardDelete(ctx context.Context, id string) error {
	return s.life.hardDelete(ctx, id)
}
