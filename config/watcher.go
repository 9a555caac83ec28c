// 配置文件变更监听器。
//
// 轮询修改时间触发重载回调，用于费率与系数表的热更新：
// 服务商价格表变动频繁，长运行进程不应为此重启。
package config

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileWatcher 轮询监听配置文件的修改时间
type FileWatcher struct {
	mu sync.Mutex

	path     string
	interval time.Duration

	running  bool
	stopChan chan struct{}

	callbacks []func(path string)

	logger *zap.Logger

	lastModTime time.Time
}

// NewFileWatcher 创建文件监听器；interval ≤ 0 时取 2 秒
func NewFileWatcher(path string, interval time.Duration, logger *zap.Logger) *FileWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileWatcher{
		path:     path,
		interval: interval,
		logger:   logger.With(zap.String("component", "config_watcher")),
	}
}

// OnChange 注册变更回调；须在 Start 之前调用
func (w *FileWatcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start 启动轮询；重复调用无效果
func (w *FileWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})
	if info, err := os.Stat(w.path); err == nil {
		w.lastModTime = info.ModTime()
	}
	w.mu.Unlock()

	go w.loop(ctx)
}

// Stop 停止轮询
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopChan)
}

func (w *FileWatcher) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *FileWatcher) poll() {
	info, err := os.Stat(w.path)
	if err != nil {
		// 文件暂时不可见不算变更
		return
	}
	w.mu.Lock()
	changed := info.ModTime().After(w.lastModTime)
	if changed {
		w.lastModTime = info.ModTime()
	}
	callbacks := w.callbacks
	w.mu.Unlock()

	if !changed {
		return
	}
	w.logger.Info("config file changed", zap.String("path", w.path))
	for _, fn := range callbacks {
		fn(w.path)
	}
}
