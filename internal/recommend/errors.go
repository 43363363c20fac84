package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData 已看影片不足，无法构建画像
	ErrInsufficientData = errors.New("INSUFFICIENT_DATA")

	// ErrUnknown 画像构建或聚合中的意外错误（如历史存储不可用），调用方可重试
	ErrUnknown = errors.New("UNKNOWN")
)

// InsufficientDataError 携带已看数量与门槛
type InsufficientDataError struct {
	WatchedCount  int `json:"watched_count"`
	RequiredCount int `json:"required_count"`
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: watched %d movies, need at least %d", ErrInsufficientData, e.WatchedCount, e.RequiredCount)
}

// Is 使 errors.Is(err, ErrInsufficientData) 成立
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

func unknown(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnknown, op, err)
}
