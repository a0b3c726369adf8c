package config

import (
	"sync"
	"sync/atomic"
)

// AtomicContainer 使用 atomic.Pointer 實現的配置容器
//
// Get 返回的快照是只讀的，修改必須通過 Update。
type AtomicContainer struct {
	store atomic.Pointer[Config]
	mu    sync.Mutex
}

// NewAtomicContainer 初始化
func NewAtomicContainer(cfg *Config) *AtomicContainer {
	c := &AtomicContainer{}
	c.store.Store(cfg.DeepCopy())
	return c
}

// Get 獲取當前配置的快照
func (c *AtomicContainer) Get() *Config {
	return c.store.Load()
}

// Set 直接替換快照（調用方已完成校驗）
func (c *AtomicContainer) Set(cfg *Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Store(cfg.DeepCopy())
}

// Update 寫時複製：複製 -> 修改 -> 驗證 -> 原子替換
func (c *AtomicContainer) Update(fn func(*Config) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	newCfg := c.store.Load().DeepCopy()
	if err := fn(newCfg); err != nil {
		return err
	}
	if err := newCfg.Validate(); err != nil {
		return err
	}

	c.store.Store(newCfg)
	return nil
}
