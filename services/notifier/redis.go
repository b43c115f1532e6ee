package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand"

	"aptwatcher/internal/scraper"
	"aptwatcher/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes new listings to Redis streams for downstream
// consumers (bots, dashboards). Payloads are JSON, base64 encoded.
type RedisNotifier struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisNotifier creates a new Redis stream notifier
func NewRedisNotifier(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if streamCount <= 0 {
		streamCount = 1
	}

	return &RedisNotifier{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Name returns the notifier's name
func (n *RedisNotifier) Name() string {
	return "redis"
}

// Notify publishes each listing to one of the configured streams and trims
// the streams afterwards
func (n *RedisNotifier) Notify(listings []scraper.Listing) error {
	for _, listing := range listings {
		data, err := json.Marshal(listing)
		if err != nil {
			return errors.NewNotification("redis", "failed to encode listing", err)
		}
		if err := n.publish(listing.Provider, data); err != nil {
			return errors.NewNotification("redis", "failed to publish listing", err)
		}
	}

	if err := n.trimStreams(); err != nil {
		return errors.NewNotification("redis", "failed to trim streams", err)
	}

	return nil
}

// publish adds a message to a randomly chosen stream within the configured
// stream count, spreading load across consumers
func (n *RedisNotifier) publish(key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	stream := n.streamPrefix + ":" + strconv.Itoa(rand.Intn(n.streamCount))

	return n.client.XAdd(n.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			key: encodedMessage,
		},
	}).Err()
}

// trimStreams trims all streams to the configured maximum length
func (n *RedisNotifier) trimStreams() error {
	pattern := n.streamPrefix + ":*"
	streams, err := n.client.Keys(n.ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		if err := n.client.XTrimMaxLen(n.ctx, stream, int64(n.streamMaxLength)).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
