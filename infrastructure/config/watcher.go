package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TuningConfig is the runtime-changeable slice of configuration: the
// aggregation knobs the dashboard team tunes without a redeploy.
type TuningConfig struct {
	TemporalWindowMinutes int `yaml:"temporal_window_minutes"`
	TrajectoryWindowDays  int `yaml:"trajectory_window_days"`
	GraphMinFrequency     int `yaml:"graph_min_frequency"`
	GraphNodeCap          int `yaml:"graph_node_cap"`
}

// Watcher reloads the tuning file when it changes on disk. Atomic
// saves arrive as renames, so the parent directory is watched too.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  TuningConfig
	mu       sync.RWMutex
	onChange []func(TuningConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewWatcher loads the initial tuning file and prepares the watch.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	current, err := loadTuningFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tuning config: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch tuning file: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch tuning directory", zap.Error(err))
	}

	return &Watcher{
		path:    path,
		watcher: fw,
		current: current,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Current returns the latest tuning snapshot.
func (w *Watcher) Current() TuningConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback run after every successful reload.
func (w *Watcher) OnChange(fn func(TuningConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("tuning watcher started", zap.String("path", w.path))
}

// Stop ends the watch.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	// Editors fire several events per save; debounce them.
	var reload *time.Timer
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if reload != nil {
				reload.Stop()
			}
			reload = time.AfterFunc(200*time.Millisecond, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("tuning watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	updated, err := loadTuningFile(w.path)
	if err != nil {
		w.logger.Warn("ignoring broken tuning file", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = updated
	callbacks := make([]func(TuningConfig), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()

	w.logger.Info("tuning config reloaded",
		zap.Int("temporalWindowMinutes", updated.TemporalWindowMinutes),
		zap.Int("graphMinFrequency", updated.GraphMinFrequency),
	)
	for _, fn := range callbacks {
		fn(updated)
	}
}

func loadTuningFile(path string) (TuningConfig, error) {
	cfg := TuningConfig{
		TemporalWindowMinutes: 30,
		TrajectoryWindowDays:  30,
		GraphMinFrequency:     2,
		GraphNodeCap:          300,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
