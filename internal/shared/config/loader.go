package config

import (
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "TOWN"

// Loader 持有一份解析好的配置快照，文件变更时整体替换。
// 读方拿到的是值拷贝，不会读到半更新的结构。
type Loader[T any] struct {
	v    *viper.Viper
	path string

	mu       sync.RWMutex
	cur      T
	watchers []func(T, error)
}

// Load 读取配置文件到 T，defaults 为未出现在文件里的键提供默认值。
// 环境变量 TOWN_<SECTION>_<KEY> 覆盖文件中的值。
func Load[T any](cfgName string, defaults map[string]any) (*Loader[T], error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	l := &Loader[T]{v: v, path: path}
	cur, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cur = cur
	return l, nil
}

func (l *Loader[T]) decode() (T, error) {
	var out T
	err := l.v.Unmarshal(&out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	return out, err
}

func (l *Loader[T]) Path() string { return l.path }

// Get 返回当前配置快照。
func (l *Loader[T]) Get() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cur
}

// OnChange 注册变更回调；解析失败时保留旧快照，并把错误交给回调。
func (l *Loader[T]) OnChange(fn func(T, error)) {
	l.mu.Lock()
	l.watchers = append(l.watchers, fn)
	l.mu.Unlock()
}

// Watch 开始监听配置文件（fsnotify）。
func (l *Loader[T]) Watch() {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := l.decode()
		l.mu.Lock()
		if err == nil {
			l.cur = next
		}
		cur := l.cur
		watchers := append(([]func(T, error))(nil), l.watchers...)
		l.mu.Unlock()
		for _, fn := range watchers {
			fn(cur, err)
		}
	})
	l.v.WatchConfig()
}
