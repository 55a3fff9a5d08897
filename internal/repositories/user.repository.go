package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/services"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetAll(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func New(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	return getDB(ctx, &r.db)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := r.getDB(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, services.ErrNotFound)
	}
	if err != nil {
		return nil, r.log.Function("GetByID").Err("failed to get user by id", err, "userID", id)
	}
	return &user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	login = strings.ToLower(strings.TrimSpace(login))

	var user User
	err := r.getDB(ctx).First(&user, "login = ?", login).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", login, services.ErrNotFound)
	}
	if err != nil {
		return nil, r.log.Function("GetByLogin").Err("failed to get user by login", err, "login", login)
	}
	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := r.getDB(ctx).Order("login ASC").Find(&users).Error; err != nil {
		return nil, r.log.Function("GetAll").Err("failed to get users", err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	user.Login = strings.ToLower(strings.TrimSpace(user.Login))
	if user.Login == "" {
		return log.Err("user login is empty", services.ErrValidation)
	}

	if err := r.getDB(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "login", user.Login)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	if err := r.getDB(ctx).Save(user).Error; err != nil {
		return r.log.Function("Update").Err("failed to update user", err, "userID", user.ID)
	}
	return nil
}
