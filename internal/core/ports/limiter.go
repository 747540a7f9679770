package ports

import "context"

// LoginLimiter throttles repeated failed login attempts per email.
type LoginLimiter interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
