package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ResetCodeTTL is how long a password-reset code stays valid.
const ResetCodeTTL = 10 * time.Minute

// CodeStore keeps short-lived password-reset codes keyed by canonical
// telephone. Codes are single-use: Consume removes the code it matched.
type CodeStore interface {
	Save(ctx context.Context, telephone, code string) error
	Consume(ctx context.Context, telephone, code string) (bool, error)
}

// SmsSender delivers a reset code to a telephone. Real SMS dispatch is an
// external collaborator this service does not own.
type SmsSender interface {
	SendResetCode(ctx context.Context, telephone, code string) error
}

// GenerateResetCode produces a six digit numeric code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// redisCodeStore stores reset codes in Redis with a TTL.
type redisCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCodeStore creates a CodeStore backed by the given Redis client.
func NewRedisCodeStore(client *redis.Client, ttl time.Duration) CodeStore {
	return &redisCodeStore{client: client, ttl: ttl}
}

func resetCodeKey(telephone string) string {
	return "reset_code:" + telephone
}

func (s *redisCodeStore) Save(ctx context.Context, telephone, code string) error {
	if err := s.client.Set(ctx, resetCodeKey(telephone), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return nil
}

func (s *redisCodeStore) Consume(ctx context.Context, telephone, code string) (bool, error) {
	stored, err := s.client.GetDel(ctx, resetCodeKey(telephone)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil // No outstanding code (never requested or expired)
		}
		return false, fmt.Errorf("failed to read reset code: %w", err)
	}
	if stored != code {
		// The code was consumed by the failed attempt; a new request is needed.
		return false, nil
	}
	return true, nil
}

// logSmsSender is the default SmsSender: it logs instead of sending. Wiring a
// real gateway (Twilio or an operator API) replaces this implementation only.
type logSmsSender struct{}

// NewLogSmsSender returns an SmsSender that only logs the dispatch.
func NewLogSmsSender() SmsSender {
	return logSmsSender{}
}

func (logSmsSender) SendResetCode(ctx context.Context, telephone, code string) error {
	log.Info().Str("telephone", telephone).Msg("reset code issued (SMS dispatch not configured)")
	return nil
}
