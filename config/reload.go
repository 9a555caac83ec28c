// 配置热重载管理器。
//
// 监听配置文件变化，重新加载并通过回调下发新旧配置。
// 校验失败的配置不会被应用，继续沿用上一份。
package config

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ReloadCallback 在新配置通过校验并应用后调用
type ReloadCallback func(oldConfig, newConfig *Config)

// ReloadManager 管理配置热重载
type ReloadManager struct {
	mu sync.RWMutex

	loader  *Loader
	current *Config
	watcher *FileWatcher

	callbacks []ReloadCallback

	logger *zap.Logger
}

// NewReloadManager 创建热重载管理器并完成首次加载
func NewReloadManager(path string, logger *zap.Logger) (*ReloadManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loader := NewLoader().WithConfigPath(path).WithValidator((*Config).Validate)
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	m := &ReloadManager{
		loader:  loader,
		current: cfg,
		watcher: NewFileWatcher(path, 0, logger),
		logger:  logger.With(zap.String("component", "config_reload")),
	}
	m.watcher.OnChange(func(string) { m.reload() })
	return m, nil
}

// Current 返回当前生效的配置
func (m *ReloadManager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// OnReload 注册重载回调；须在 Start 之前调用
func (m *ReloadManager) OnReload(fn ReloadCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Start 启动文件监听
func (m *ReloadManager) Start(ctx context.Context) {
	m.watcher.Start(ctx)
}

// Stop 停止文件监听
func (m *ReloadManager) Stop() {
	m.watcher.Stop()
}

func (m *ReloadManager) reload() {
	next, err := m.loader.Load()
	if err != nil {
		// 坏配置不落地，继续用上一份
		m.logger.Warn("config reload rejected", zap.Error(err))
		return
	}

	m.mu.Lock()
	prev := m.current
	m.current = next
	callbacks := m.callbacks
	m.mu.Unlock()

	m.logger.Info("config reloaded")
	for _, fn := range callbacks {
		fn(prev, next)
	}
}
