package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

const listTTL = 5 * time.Minute

// TaskListCache keeps per-owner task lists in Redis. It is strictly an
// optimisation: when Redis is not configured or unreachable every call is a
// no-op miss and the caller falls through to the database.
type TaskListCache struct {
	rdb *redis.Client
}

// New connects to Redis. An empty addr or a failed ping returns a cache that
// never hits, keeping the API available without Redis.
func New(addr, password string, db int) *TaskListCache {
	if addr == "" {
		return &TaskListCache{}
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, task list cache disabled", "error", err)
		return &TaskListCache{}
	}
	return &TaskListCache{rdb: rdb}
}

func listKey(ownerID int64) string {
	return "tasks:" + strconv.FormatInt(ownerID, 10)
}

func (c *TaskListCache) GetList(ctx context.Context, ownerID int64) ([]*domain.Task, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, listKey(ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var tasks []*domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, false
	}
	return tasks, true
}

func (c *TaskListCache) SetList(ctx context.Context, ownerID int64, tasks []*domain.Task) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listKey(ownerID), raw, listTTL).Err(); err != nil {
		logger.Debug("task list cache set failed", "owner_id", ownerID, "error", err)
	}
}

func (c *TaskListCache) Invalidate(ctx context.Context, ownerID int64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, listKey(ownerID)).Err(); err != nil {
		logger.Debug("task list cache invalidate failed", "owner_id", ownerID, "error", err)
	}
}
