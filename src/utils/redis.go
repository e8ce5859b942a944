package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	DB "github.com/MutheuMC/Interview-ACTSERV/src/database"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()

const schemaCacheTTL = 10 * time.Minute

// ensureClient returns the shared Redis client managed by the database package.
// If the database package didn't initialize Redis, this will return nil and
// callers should handle that case (they already do).
func ensureClient() *redis.Client {
	return DB.RedisClient
}

// CacheFormSchema เก็บ compiled schema ของ current version ไว้ใน Redis
// Returns nil if Redis is not available (development mode)
func CacheFormSchema(formID string, schema interface{}) error {
	client := ensureClient()
	if client == nil {
		// ไม่มี Redis ใน dev mode - ข้าม
		return nil
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %v", err)
	}

	key := fmt.Sprintf("form_schema:%s", formID)
	if err := client.Set(Ctx, key, data, schemaCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache schema: %v", err)
	}
	return nil
}

// GetCachedFormSchema อ่าน schema จาก cache ถ้ามี
// Returns (false, nil) on a miss or when Redis is not available
func GetCachedFormSchema(formID string, out interface{}) (bool, error) {
	client := ensureClient()
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("form_schema:%s", formID)
	data, err := client.Get(Ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil // ไม่มีใน cache
		}
		return false, fmt.Errorf("failed to read schema cache: %v", err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached schema: %v", err)
	}
	return true, nil
}

// InvalidateFormSchema ลบ schema เก่าออกตอนมี version ใหม่
// Returns nil if Redis is not available (development mode)
func InvalidateFormSchema(formID string) error {
	client := ensureClient()
	if client == nil {
		// ไม่มี Redis ใน dev mode - ข้าม
		return nil
	}

	key := fmt.Sprintf("form_schema:%s", formID)
	if err := client.Del(Ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate schema cache: %v", err)
	}
	return nil
}
