package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ransomnotes/internal/domain"
)

const (
	gameKeyPrefix   = "game:"
	inviteKeyPrefix = "invite:"
)

// Redis is a Store backed by a Redis instance. Each game is one JSON value
// at game:{id}; the invite index lives at invite:{CODE}. Both keys share the
// configured TTL, zero meaning no expiration.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get retrieves a game by id
func (r *Redis) Get(ctx context.Context, gameID string) (*domain.Game, error) {
	data, err := r.client.Get(ctx, gameKeyPrefix+gameID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUnknownGame
	}
	if err != nil {
		return nil, fmt.Errorf("store: get game %s: %w", gameID, err)
	}

	var game domain.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("store: decode game %s: %w", gameID, err)
	}
	return &game, nil
}

// Put saves the game snapshot and its invite index entry in one pipeline
func (r *Redis) Put(ctx context.Context, game *domain.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("store: encode game %s: %w", game.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, gameKeyPrefix+game.ID, data, r.ttl)
	pipe.Set(ctx, inviteKeyPrefix+strings.ToUpper(game.InviteCode), game.ID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store: put game %s: %w", game.ID, err)
	}
	return nil
}

// FindByInvite retrieves a game by invite code
func (r *Redis) FindByInvite(ctx context.Context, inviteCode string) (*domain.Game, error) {
	gameID, err := r.client.Get(ctx, inviteKeyPrefix+strings.ToUpper(inviteCode)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUnknownGame
	}
	if err != nil {
		return nil, fmt.Errorf("store: find invite %s: %w", inviteCode, err)
	}
	return r.Get(ctx, gameID)
}

// Delete removes a game and its invite index entry
func (r *Redis) Delete(ctx context.Context, gameID string) error {
	game, err := r.Get(ctx, gameID)
	if errors.Is(err, domain.ErrUnknownGame) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, gameKeyPrefix+gameID)
	pipe.Del(ctx, inviteKeyPrefix+strings.ToUpper(game.InviteCode))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store: delete game %s: %w", gameID, err)
	}
	return nil
}
