package service

import (
	"fmt"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

func newID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return id, nil
}

func invalid(format string, args ...any) error {
	err := fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
	slog.Info(err.Error())
	return err
}

func clampLimit(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
