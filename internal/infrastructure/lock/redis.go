package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"

	"deal_scout/pkg/logx"
)

const releaseTimeout = 5 * time.Second

// releaseScript deletes the key only while it still holds our token, so an
// expired lease taken over by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`) //nolint:gochecknoglobals

// Redis is a lease stored under one key with SET NX PX.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, key string, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (l *Redis) Acquire(ctx context.Context) (func(), error) {
	token := xid.New().String()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.SetNX: %w", err)
	}

	if !ok {
		holder, _ := l.client.Get(ctx, l.key).Result()
		return nil, errBusy(holder)
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
			logger(ctx).Error("release scan lock", slog.String("key", l.key), logx.Error(err))
		}
	}

	return release, nil
}
