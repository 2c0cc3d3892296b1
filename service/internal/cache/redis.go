// Package cache publishes session activity to Redis. The feed is
// fire-and-forget: subscribers that are not listening miss it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/engine"
	"github.com/redis/go-redis/v9"
)

// MoveRecord is the message published for every applied move.
type MoveRecord struct {
	SessionID   uuid.UUID   `json:"sessionId"`
	GameID      string      `json:"gameId"`
	Seed        uint64      `json:"seed"`
	ActionIndex int         `json:"actionIndex"`
	Move        engine.Move `json:"move"`
	Auto        bool        `json:"auto,omitempty"`
	Timestamp   int64       `json:"timestamp"` // Unix milliseconds.
}

// MovesChannel returns the pub/sub channel carrying the moves of a session.
func MovesChannel(sessionID uuid.UUID) string {
	return "solitaire:moves:" + sessionID.String()
}

// Client wraps a Redis connection.
type Client struct {
	rdb *redis.Client
}

// Connect parses a redis:// URL and returns a client for it. No connection
// is made until the first command; use Ping to check reachability.
func Connect(url string) (*Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Client{rdb: redis.NewClient(opt)}, nil
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// PublishMove publishes rec on the channel of its session.
func (c *Client) PublishMove(ctx context.Context, rec MoveRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal move record: %w", err)
	}
	if err := c.rdb.Publish(ctx, MovesChannel(rec.SessionID), data).Err(); err != nil {
		return fmt.Errorf("publish move %d: %w", rec.ActionIndex, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
