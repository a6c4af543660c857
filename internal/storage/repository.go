package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("storage: not found")
	ErrInvalidKey = errors.New("storage: invalid setting key")
)

// UserNameKey holds the name entered through login.
const UserNameKey = "prime_user_name"

type Repository interface {
	GetSetting(ctx context.Context, key string) (Setting, error)
	PutSetting(ctx context.Context, in Setting) error
	DeleteSetting(ctx context.Context, key string) error
	ListSettings(ctx context.Context, filter SettingListFilter) ([]Setting, error)
}
