package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, wrapErr(err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection
func (s *Storage) Ping(ctx context.Context) error {
	return wrapErr(s.client.Ping(ctx).Err())
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// unavailablePrefixes are server replies meaning the instance cannot serve
// reads or writes right now
var unavailablePrefixes = []string{
	"LOADING ",
	"MASTERDOWN ",
	"READONLY ",
	"OOM ",
	"MISCONF ",
	"BUSY ",
	"CLUSTERDOWN ",
	"TRYAGAIN ",
	"NOAUTH ",
	"max number of clients reached",
}

// wrapErr marks transport failures and server-state replies as
// storage.ErrUnavailable. Other replies (including redis.Nil) are returned unchanged.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var replyErr redis.Error
	if errors.As(err, &replyErr) && !isServerStateError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
}

func isServerStateError(err error) bool {
	for _, prefix := range unavailablePrefixes {
		if redis.HasErrorPrefix(err, prefix) {
			return true
		}
	}
	return false
}

// Settings operations

func (s *Storage) EnsureSettings(ctx context.Context, defaults model.PlayerSettings) (*model.PlayerSettings, bool, error) {
	key := settingsKey(defaults.PlayerID)

	var created *redis.BoolCmd
	var all *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.HSetNX(ctx, key, fieldVolume, defaults.Volume)
		pipe.HSetNX(ctx, key, fieldVibration, defaults.Vibration)
		pipe.HSetNX(ctx, key, fieldLanguage, string(defaults.Language))
		all = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		return nil, false, wrapErr(err)
	}

	settings, err := decodeSettings(defaults.PlayerID, all.Val())
	if err != nil {
		return nil, false, err
	}
	return settings, created.Val(), nil
}

func (s *Storage) MergeSettings(ctx context.Context, defaults model.PlayerSettings, patch model.SettingsPatch) (*model.PlayerSettings, error) {
	key := settingsKey(defaults.PlayerID)

	var fields []any
	if patch.Volume != nil {
		fields = append(fields, fieldVolume, *patch.Volume)
	}
	if patch.Vibration != nil {
		fields = append(fields, fieldVibration, *patch.Vibration)
	}
	if patch.Language != nil {
		fields = append(fields, fieldLanguage, string(*patch.Language))
	}

	// MULTI keeps defaults-then-patch atomic against other writers
	var all *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldVolume, defaults.Volume)
		pipe.HSetNX(ctx, key, fieldVibration, defaults.Vibration)
		pipe.HSetNX(ctx, key, fieldLanguage, string(defaults.Language))
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields...)
		}
		all = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		return nil, wrapErr(err)
	}

	return decodeSettings(defaults.PlayerID, all.Val())
}

func decodeSettings(id model.PlayerID, fields map[string]string) (*model.PlayerSettings, error) {
	volume, err := strconv.ParseBool(fields[fieldVolume])
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldVolume, err)
	}
	vibration, err := strconv.ParseBool(fields[fieldVibration])
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldVibration, err)
	}
	return &model.PlayerSettings{
		PlayerID:  id,
		Volume:    volume,
		Vibration: vibration,
		Language:  model.Language(fields[fieldLanguage]),
	}, nil
}

// Progress operations

func (s *Storage) EnsureProgress(ctx context.Context, playerID model.PlayerID, now time.Time) (*model.ProgressRecord, bool, error) {
	key := progressKey(playerID)

	var created *redis.BoolCmd
	var all *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.HSetNX(ctx, key, fieldUnlockedUpto, model.FirstLevel)
		pipe.HSetNX(ctx, key, fieldUpdatedAt, now.UnixMilli())
		all = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		return nil, false, wrapErr(err)
	}

	fields := all.Val()
	unlocked, err := strconv.Atoi(fields[fieldUnlockedUpto])
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", fieldUnlockedUpto, err)
	}
	updatedAt, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", fieldUpdatedAt, err)
	}

	return &model.ProgressRecord{
		PlayerID:     playerID,
		UnlockedUpto: unlocked,
		UpdatedAt:    time.UnixMilli(updatedAt).UTC(),
	}, created.Val(), nil
}

func (s *Storage) RaiseProgress(ctx context.Context, playerID model.PlayerID, unlockedUpto int, now time.Time) (*model.ProgressRecord, bool, error) {
	res, err := raiseProgressScript.Run(ctx, s.client,
		[]string{progressKey(playerID)},
		unlockedUpto, now.UnixMilli(), model.FirstLevel,
	).Int64Slice()
	if err != nil {
		return nil, false, wrapErr(err)
	}
	if len(res) != 3 {
		return nil, false, fmt.Errorf("unexpected raise progress reply %v", res)
	}

	return &model.ProgressRecord{
		PlayerID:     playerID,
		UnlockedUpto: int(res[0]),
		UpdatedAt:    time.UnixMilli(res[2]).UTC(),
	}, res[1] == 1, nil
}

// Ghost operations

func (s *Storage) GetGhost(ctx context.Context, playerID model.PlayerID, level int) (*model.GhostRecord, error) {
	data, err := s.client.HGet(ctx, ghostsKey(playerID), levelField(level)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, wrapErr(err)
	}

	var ghost model.GhostRecord
	if err := json.Unmarshal(data, &ghost); err != nil {
		return nil, fmt.Errorf("decode ghost level %d: %w", level, err)
	}
	return &ghost, nil
}

func (s *Storage) PutGhostIfFaster(ctx context.Context, ghost *model.GhostRecord) (bool, error) {
	data, err := json.Marshal(ghost)
	if err != nil {
		return false, err
	}

	stored, err := putGhostIfFasterScript.Run(ctx, s.client,
		[]string{ghostTimesKey(ghost.PlayerID), ghostsKey(ghost.PlayerID)},
		levelField(ghost.Level), ghost.TimeMs, data,
	).Int()
	if err != nil {
		return false, wrapErr(err)
	}
	return stored == 1, nil
}

func (s *Storage) ListGhosts(ctx context.Context, playerID model.PlayerID) ([]*model.GhostRecord, error) {
	values, err := s.client.HGetAll(ctx, ghostsKey(playerID)).Result()
	if err != nil {
		return nil, wrapErr(err)
	}

	ghosts := make([]*model.GhostRecord, 0, len(values))
	for field, val := range values {
		var ghost model.GhostRecord
		if err := json.Unmarshal([]byte(val), &ghost); err != nil {
			return nil, fmt.Errorf("decode ghost level %s: %w", field, err)
		}
		ghosts = append(ghosts, &ghost)
	}

	slices.SortFunc(ghosts, func(a, b *model.GhostRecord) int {
		return a.Level - b.Level
	})
	return ghosts, nil
}
