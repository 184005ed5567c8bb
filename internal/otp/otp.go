// internal/otp/otp.go

// Package otp implements the second login factor: short numeric codes stored
// in Redis with a TTL and delivered over SMS. A code is one-shot; verification
// consumes it whether or not it matched.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/common/metrics"
)

// Sender delivers the code out of band. aws.SNSClient satisfies this.
type Sender interface {
	SendSMS(ctx context.Context, phone, message, senderID string) error
}

type Service struct {
	redis  *redis.Client
	sender Sender
	length int
	ttl    time.Duration
	logger logger.Logger
}

func NewService(rdb *redis.Client, sender Sender, length int, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		redis:  rdb,
		sender: sender,
		length: length,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "otp"}),
	}
}

func key(username string) string {
	return "financeflow:otp:" + username
}

// Challenge generates a fresh code for the user, stores it with the TTL and
// sends it to the given phone number. A new challenge replaces any pending one.
func (s *Service) Challenge(ctx context.Context, username, phone string) error {
	code, err := s.generate()
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, key(username), code, s.ttl).Err(); err != nil {
		return errors.NewQueryExecutionFailedError("store otp", err)
	}

	message := fmt.Sprintf("Your Finance Flow verification code is %s. It expires in %d minutes.",
		code, int(s.ttl.Minutes()))
	if s.sender != nil {
		if err := s.sender.SendSMS(ctx, phone, message, "FINFLOW"); err != nil {
			s.logger.Error("otp delivery failed", map[string]interface{}{
				"username": username,
				"error":    err,
			})
			return errors.NewNotificationSendFailedError("sms", err)
		}
	}

	metrics.OTPChallengesIssued.Inc()
	s.logger.Info("otp challenge issued", map[string]interface{}{
		"username": username,
	})
	return nil
}

// Verify checks the submitted code. The stored code is deleted on every
// attempt, so a wrong guess forces a fresh challenge.
func (s *Service) Verify(ctx context.Context, username, code string) error {
	stored, err := s.redis.Get(ctx, key(username)).Result()
	if err == redis.Nil {
		return errors.NewOTPExpiredError()
	}
	if err != nil {
		return errors.NewQueryExecutionFailedError("read otp", err)
	}

	if delErr := s.redis.Del(ctx, key(username)).Err(); delErr != nil {
		s.logger.Warn("otp cleanup failed", map[string]interface{}{
			"username": username,
			"error":    delErr,
		})
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return errors.NewOTPInvalidError()
	}
	return nil
}

func (s *Service) generate() (string, error) {
	max := big.NewInt(10)
	digits := make([]byte, s.length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("otp generation: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
