package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
)

var (
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheStale means the blocks were invalidated after they were read.
	ErrCacheStale = errors.New("cache entry is stale")
)

// setIfGenerationScript stores the payload only while the property's
// generation still equals the one observed on the cache miss.
const setIfGenerationScript = `
	local current = redis.call("GET", KEYS[1]) or "0"
	if current == ARGV[1] then
		redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
		return 1
	end
	return 0
`

// AvailabilityCacheInterface caches a property's availability blocks between writes.
//
// Every write bumps a per-property generation. GetBlocks reports the
// generation it saw, and SetBlocks refuses to store blocks under an older one,
// so a fill racing a write cannot put the pre-write list back.
type AvailabilityCacheInterface interface {
	GetBlocks(ctx context.Context, propertyID string) ([]*availability.Block, int64, error)
	SetBlocks(ctx context.Context, propertyID string, generation int64, blocks []*availability.Block, ttl time.Duration) error
	Invalidate(ctx context.Context, propertyID string) error
}

// AvailabilityCache stores the ordered block list of a property as JSON.
type AvailabilityCache struct {
	client *redis.Client
}

var _ AvailabilityCacheInterface = (*AvailabilityCache)(nil)

// NewAvailabilityCache creates an AvailabilityCache.
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

type cachedBlock struct {
	ID            string              `json:"id"`
	PropertyID    string              `json:"property_id"`
	StartDate     time.Time           `json:"start_date"`
	EndDate       time.Time           `json:"end_date"`
	IsAvailable   bool                `json:"is_available"`
	PriceOverride decimal.NullDecimal `json:"price_override"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// GetBlocks returns the cached blocks and the current generation. On a miss
// it returns ErrCacheMiss together with the generation to pass to SetBlocks.
func (c *AvailabilityCache) GetBlocks(ctx context.Context, propertyID string) ([]*availability.Block, int64, error) {
	vals, err := c.client.MGet(ctx, availabilityKey(propertyID), generationKey(propertyID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read availability cache: %w", err)
	}
	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, ErrCacheMiss
	}
	blocks, err := decodeBlocks([]byte(raw))
	if err != nil {
		return nil, gen, err
	}
	return blocks, gen, nil
}

// SetBlocks caches blocks read under generation. It returns ErrCacheStale
// and stores nothing when the property was invalidated since.
func (c *AvailabilityCache) SetBlocks(ctx context.Context, propertyID string, generation int64, blocks []*availability.Block, ttl time.Duration) error {
	data, err := encodeBlocks(blocks)
	if err != nil {
		return err
	}
	stored, err := c.client.Eval(ctx, setIfGenerationScript,
		[]string{generationKey(propertyID), availabilityKey(propertyID)},
		strconv.FormatInt(generation, 10), data, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	if stored == 0 {
		return ErrCacheStale
	}
	return nil
}

// Invalidate bumps the property's generation, then drops its cached blocks.
// The bump comes first so that a fill already in flight is refused.
func (c *AvailabilityCache) Invalidate(ctx context.Context, propertyID string) error {
	if err := c.client.Incr(ctx, generationKey(propertyID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	if err := c.client.Del(ctx, availabilityKey(propertyID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	return nil
}

func availabilityKey(propertyID string) string {
	return fmt.Sprintf("availability:blocks:%s", propertyID)
}

func generationKey(propertyID string) string {
	return fmt.Sprintf("availability:generation:%s", propertyID)
}

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid availability cache generation %q: %w", s, err)
	}
	return gen, nil
}

func encodeBlocks(blocks []*availability.Block) (string, error) {
	out := make([]cachedBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, cachedBlock{
			ID:            b.ID,
			PropertyID:    b.PropertyID,
			StartDate:     b.StartDate,
			EndDate:       b.EndDate,
			IsAvailable:   b.IsAvailable,
			PriceOverride: b.PriceOverride,
			CreatedAt:     b.CreatedAt,
			UpdatedAt:     b.UpdatedAt,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode availability blocks: %w", err)
	}
	return string(data), nil
}

func decodeBlocks(raw []byte) ([]*availability.Block, error) {
	var in []cachedBlock
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("failed to decode availability blocks: %w", err)
	}
	blocks := make([]*availability.Block, 0, len(in))
	for _, cb := range in {
		blocks = append(blocks, &availability.Block{
			ID:            cb.ID,
			PropertyID:    cb.PropertyID,
			StartDate:     cb.StartDate.UTC(),
			EndDate:       cb.EndDate.UTC(),
			IsAvailable:   cb.IsAvailable,
			PriceOverride: cb.PriceOverride,
			CreatedAt:     cb.CreatedAt,
			UpdatedAt:     cb.UpdatedAt,
		})
	}
	return blocks, nil
}
