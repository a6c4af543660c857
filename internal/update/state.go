package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/primecalc/internal/storage"
)

const settingsTimeout = 2 * time.Second

func loadUserName(ctx context.Context, repo storage.Repository) (string, error) {
	if repo == nil {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, settingsTimeout)
	defer cancel()
	setting, err := repo.GetSetting(ctx, storage.UserNameKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(setting.Value), nil
}

func persistUserName(ctx context.Context, repo storage.Repository, name string, now time.Time) error {
	if repo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, settingsTimeout)
	defer cancel()
	err := repo.PutSetting(ctx, storage.Setting{
		Key:       storage.UserNameKey,
		Value:     name,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("save user name: %w", err)
	}
	return nil
}

func forgetUserName(ctx context.Context, repo storage.Repository) error {
	if repo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, settingsTimeout)
	defer cancel()
	if err := repo.DeleteSetting(ctx, storage.UserNameKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("forget user name: %w", err)
	}
	return nil
}
