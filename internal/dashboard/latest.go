// Package dashboard 维护终端看板的视图快照。
//
// 日报、周报与打卡记录视图都由用户导航触发加载，请求之间不做防抖，
// 结果可能乱序返回。每次加载都领取一张带序号的票据，
// 返回时票据已不是最新的结果直接丢弃（ErrSuperseded），视图始终展示最后一次触发的参数。
package dashboard

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded 加载结果已被更新的请求取代
var ErrSuperseded = errors.New("请求已被更新的导航取代")

// Ticket 一次加载的票据
type Ticket[K comparable] struct {
	Key K
	seq uint64
}

// Latest 按触发参数标记在途请求，只接受最后一次触发的结果
type Latest[K comparable] struct {
	mu  sync.Mutex
	seq uint64
	key K
}

// Begin 登记一次新的加载，之前的票据全部失效
func (l *Latest[K]) Begin(key K) Ticket[K] {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.key = key
	return Ticket[K]{Key: key, seq: l.seq}
}

// Current 票据是否仍是最后一次触发
func (l *Latest[K]) Current(t Ticket[K]) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return t.seq == l.seq
}

// Commit 票据仍是最新时执行 apply，与 Begin 互斥
func (l *Latest[K]) Commit(t Ticket[K], apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.seq != l.seq {
		return false
	}
	if apply != nil {
		apply()
	}
	return true
}

// Key 最后一次触发的参数
func (l *Latest[K]) Key() K {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.key
}

// Load 以 key 触发一次加载；返回时已被取代则丢弃结果。
// 成功且仍是最新时在锁内调用 commit（可为 nil）写入视图状态
func Load[K comparable, V any](ctx context.Context, l *Latest[K], key K, fetch func(context.Context, K) (V, error), commit func(V)) (V, error) {
	t := l.Begin(key)
	v, err := fetch(ctx, key)

	var zero V
	ok := l.Commit(t, func() {
		if err == nil && commit != nil {
			commit(v)
		}
	})
	if !ok {
		return zero, ErrSuperseded
	}
	if err != nil {
		return zero, err
	}
	return v, nil
}
