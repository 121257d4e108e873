package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the connection settings.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Connect parses the URL, creates a client and waits until it answers PING.
// The caller owns the returned client.
func Connect(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	opts, err := parseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := redis.NewClient(opts)
	if err := ping(ctx, client, max(cfg.RetryAttempts, 1), cfg.RetryInterval); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Healthcheck returns a function that pings the client.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

func parseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToParseRedisConnString, err)
	}
	return opts, nil
}

func ping(ctx context.Context, client redis.UniversalClient, attempts int, interval time.Duration) error {
	var err error
	for i := range attempts {
		if err = client.Ping(ctx).Err(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(ErrRedisNotReady, ctx.Err(), err)
		case <-time.After(interval * time.Duration(i+1)):
		}
	}
	return errors.Join(ErrRedisNotReady, err)
}
