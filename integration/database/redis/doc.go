// Package redis connects a go-redis client with retries and exposes a health
// check. The client backs session.RedisStore.
//
//	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := session.NewRedisStore(client, "")
//
// Both redis:// and rediss:// (TLS) URLs are accepted. Connect pings the
// server and retries with a growing interval until RetryAttempts is used up
// or ConnectTimeout elapses.
package redis
