// Package inflight 提供按操作键的防重入保护。
//
// 每个用户触发的操作（打卡切换、保存修改、授予/撤销角色、保存排班）在外部调用
// 未返回之前持有同一个键，期间相同键的再次触发直接被拒绝，而不是排队等待。
package inflight

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "punchdesk/pkg/errors"
	"punchdesk/pkg/redis"
)

// Guard 操作防重入接口
type Guard interface {
	// Acquire 获取操作键；键已被占用时返回 ErrActionInFlight。
	// 成功时返回的 release 必须在操作结束后调用（可重复调用）。
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// ── 进程内实现 ──

// MemoryGuard 单进程防重入
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryGuard 创建进程内 Guard
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[key]; busy {
		return nil, apperrors.ErrActionInFlight
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

// InFlight 返回键当前是否被占用
func (g *MemoryGuard) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.held[key]
	return busy
}

// ── Redis 实现 ──

// RedisGuard 跨副本防重入；TTL 兜底进程崩溃后遗留的锁
type RedisGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisGuard 创建基于 Redis 的 Guard
func NewRedisGuard(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{rdb: rdb, ttl: ttl, logger: logger}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := g.rdb.TryLock(ctx, key, token, g.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrActionInFlight
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// 请求上下文可能已取消，释放锁使用独立的短超时
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := g.rdb.Unlock(rctx, key, token); err != nil {
				g.logger.Warn("释放操作锁失败，等待 TTL 过期", zap.String("key", key), zap.Error(err))
			}
		})
	}, nil
}

// New 根据 Redis 可用性选择实现：rdb 为 nil 时降级为进程内 Guard
func New(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) Guard {
	if rdb == nil {
		return NewMemoryGuard()
	}
	return NewRedisGuard(rdb, ttl, logger)
}

// ── 操作键 ──

func PunchToggleKey(uid string) string  { return "punch:toggle:" + uid }
func PunchEditKey(punchID string) string { return "punch:edit:" + punchID }
func RoleKey(uid string) string          { return "role:" + uid }
func ScheduleKey(uid string) string      { return "schedule:" + uid }
