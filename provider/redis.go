package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/authcase"
	"github.com/MrEthical07/authcase/jwt"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every Redis failure other than a missing key.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Outcome is the auth outcome produced by RedisTokenSource.
type Outcome = authcase.AuthOutcome[*jwt.Claims]

// RedisTokenSource reads the current access token from a Redis key and
// verifies it.
//
// The key is written by whatever component performs login and refresh;
// RedisTokenSource never writes it.
type RedisTokenSource struct {
	client  redis.UniversalClient
	key     string
	manager *jwt.Manager
}

// NewRedisTokenSource returns a source reading key through client.
func NewRedisTokenSource(client redis.UniversalClient, key string, manager *jwt.Manager) (*RedisTokenSource, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if key == "" {
		return nil, errors.New("token key required")
	}
	if manager == nil {
		return nil, errors.New("jwt manager required")
	}
	return &RedisTokenSource{client: client, key: key, manager: manager}, nil
}

// Stream returns a Stream emitting exactly one outcome per run:
//
//   - key missing or token expired: Failure(NotAuthenticated)
//   - token present but not verifiable: Failure(OtherError)
//   - token valid: Success(claims)
//
// Any other Redis error fails the run with ErrRedisUnavailable.
func (s *RedisTokenSource) Stream() authcase.Stream[Outcome] {
	return func(ctx context.Context, emit func(Outcome)) error {
		outcome, err := s.Resolve(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		emit(outcome)
		return nil
	}
}

// Resolve performs one read and verification.
func (s *RedisTokenSource) Resolve(ctx context.Context) (Outcome, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return authcase.Failure[*jwt.Claims](authcase.NotAuthenticated{}), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		return Outcome{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	claims, err := s.manager.Parse(token)
	switch {
	case err == nil:
		return authcase.Success(claims), nil
	case errors.Is(err, jwt.ErrExpired):
		return authcase.Failure[*jwt.Claims](authcase.NotAuthenticated{}), nil
	default:
		return authcase.Failure[*jwt.Claims](authcase.OtherError{Message: err.Error()}), nil
	}
}
