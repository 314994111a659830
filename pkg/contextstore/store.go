package contextstore

import (
	"context"
	"sync"
	"time"

	"github.com/luminshop/payments/pkg/types"
)

// CorrelationContext 等待回调的支付上下文，按(会话,渠道)保存
type CorrelationContext struct {
	TransactionID       string               `json:"transaction_id"`  // 网关支付ID或token
	ConversationID      string               `json:"conversation_id"` // 我方关联ID
	Channel             types.PaymentChannel `json:"channel"`
	PresentationPayload string               `json:"presentation_payload,omitempty"` // step_up渠道的认证页面内容
	AttemptID           uint                 `json:"attempt_id,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
}

// Store (sessionID, channel) 键值存储。Get在键不存在时返回(nil, nil)。
// 同一(会话,渠道)同时只有一个在途上下文，重复Set直接覆盖。
type Store interface {
	Get(ctx context.Context, sessionID string, channel types.PaymentChannel) (*CorrelationContext, error)
	Set(ctx context.Context, sessionID string, channel types.PaymentChannel, cc *CorrelationContext) error
	Delete(ctx context.Context, sessionID string, channel types.PaymentChannel) error
}

type memoryEntry struct {
	value     CorrelationContext
	expiresAt time.Time
}

// MemoryStore 进程内实现，测试和单机部署使用
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func contextKey(sessionID string, channel types.PaymentChannel) string {
	return "payctx:" + sessionID + ":" + string(channel)
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string, channel types.PaymentChannel) (*CorrelationContext, error) {
	s.mu.RLock()
	entry, ok := s.entries[contextKey(sessionID, channel)]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, contextKey(sessionID, channel))
		s.mu.Unlock()
		return nil, nil
	}

	value := entry.value
	return &value, nil
}

func (s *MemoryStore) Set(ctx context.Context, sessionID string, channel types.PaymentChannel, cc *CorrelationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[contextKey(sessionID, channel)] = memoryEntry{
		value:     *cc,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string, channel types.PaymentChannel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, contextKey(sessionID, channel))
	return nil
}
