package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 世代キーは値のTTLより十分長く保持する
const generationTTL = 24 * time.Hour

// 世代が一致する場合だけ値を保存する
var setIfGenerationScript = redis.NewScript(`
local gen = redis.call("GET", KEYS[1]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// 世代を進めてから値を削除する
var invalidateScript = redis.NewScript(`
redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return redis.call("DEL", KEYS[2])
`)

// AvailabilityCache はホステルの空席数をキャッシュする
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// Get はホステルの空席数をキャッシュから取得する
// キャッシュがなければ ok=false を返す
func (c *AvailabilityCache) Get(ctx context.Context, hostelID string) (int, bool, error) {
	val, err := c.client.Get(ctx, availableSeatsKey(hostelID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, true, nil
}

// Generation はホステルのキャッシュ世代を返す。未設定なら0
func (c *AvailabilityCache) Generation(ctx context.Context, hostelID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(hostelID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("キャッシュ世代の取得に失敗: %w", err)
	}
	return gen, nil
}

// SetIfGeneration は世代が gen のままなら空席数を保存する
// 途中で Invalidate された場合は保存せず false を返す
func (c *AvailabilityCache) SetIfGeneration(ctx context.Context, hostelID string, gen int64, seats int) (bool, error) {
	keys := []string{generationKey(hostelID), availableSeatsKey(hostelID)}
	stored, err := setIfGenerationScript.Run(ctx, c.client, keys, gen, seats, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return stored == 1, nil
}

// Invalidate はホステルのキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, hostelID string) error {
	keys := []string{generationKey(hostelID), availableSeatsKey(hostelID)}
	if err := invalidateScript.Run(ctx, c.client, keys, generationTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

// 同じホステルのキーは同じハッシュスロットに置く
func availableSeatsKey(hostelID string) string {
	return fmt.Sprintf("hostels:{%s}:available_seats", hostelID)
}

func generationKey(hostelID string) string {
	return fmt.Sprintf("hostels:{%s}:cache_gen", hostelID)
}
