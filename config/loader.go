// =============================================================================
// 📦 Conclave 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("conclave.yaml").
//	    WithEnvPrefix("CONCLAVE").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/conclave/collab"
	"github.com/BaSui01/conclave/llm"
	"github.com/BaSui01/conclave/llm/budget"
)

// =============================================================================
// 🎯 核心配置结构
// =============================================================================

// Config 是 Conclave 的完整配置结构
type Config struct {
	// Run 协作运行默认值
	Run RunConfig `yaml:"run" env:"RUN"`

	// Engine 引擎级配置
	Engine EngineConfig `yaml:"engine" env:"ENGINE"`

	// Rates 服务商计费费率（美元 / 百万 token），覆盖内置表
	Rates map[string]budget.Rate `yaml:"rates" env:"-"`

	// Multipliers 协议 token 放大系数，覆盖内置表
	Multipliers map[string]float64 `yaml:"multipliers" env:"-"`

	// ContextWindows 服务商/模型上下文窗口覆盖（token 数）
	ContextWindows map[string]int `yaml:"context_windows" env:"-"`

	// Tuning 投票抽取与共识验证的启发式常量
	Tuning collab.Tuning `yaml:"tuning" env:"-"`

	// Log 日志配置
	Log LogConfig `yaml:"log" env:"LOG"`
}

// RunConfig 协作运行的默认参数（可被单次 RunOptions 覆盖）
type RunConfig struct {
	// 默认参与者列表
	Agents []string `yaml:"agents" env:"AGENTS"`
	// 默认协作模式
	Mode string `yaml:"mode" env:"MODE"`
	// 预算上限（USD）
	BudgetUSD float64 `yaml:"budget_usd" env:"BUDGET_USD"`
	// 墙钟时限
	Deadline time.Duration `yaml:"deadline" env:"DEADLINE"`
	// 风格指令
	Style string `yaml:"style" env:"STYLE"`
	// 预算/时限中断时是否降级为部分结果
	ToleratePartial bool `yaml:"tolerate_partial" env:"TOLERATE_PARTIAL"`
	// 无跨参与者数据依赖的阶段是否并行
	ParallelPhases bool `yaml:"parallel_phases" env:"PARALLEL_PHASES"`
}

// EngineConfig 引擎级配置
type EngineConfig struct {
	// 上游调用限速（次/秒），0 表示不限速
	CallsPerSecond float64 `yaml:"calls_per_second" env:"CALLS_PER_SECOND"`
	// Prometheus 指标是否启用
	MetricsEnabled bool `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 级别: debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// 格式: json, console
	Format string `yaml:"format" env:"FORMAT"`
}

// =============================================================================
// 🔧 配置加载器
// =============================================================================

// Loader 配置加载器（Builder 模式）
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader 创建新的配置加载器
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "CONCLAVE",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath 设置配置文件路径
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 设置环境变量前缀
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator 添加配置验证器
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load 加载配置
// 优先级: 默认值 → YAML 文件 → 环境变量
func (l *Loader) Load() (*Config, error) {
	// 1. 从默认值开始
	cfg := DefaultConfig()

	// 2. 如果指定了配置文件，从文件加载
	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// 3. 从环境变量覆盖
	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// 4. 运行验证器
	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

// loadFromFile 从 YAML 文件加载配置
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 文件不存在，使用默认值
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// loadFromEnv 从环境变量加载配置
func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

// setFieldsFromEnv 递归设置结构体字段
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// 获取 env tag；map 类字段只走 YAML
		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		// 如果是结构体，递归处理
		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		// 获取环境变量值
		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		// 设置字段值
		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

// setFieldValue 设置字段值
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// 特殊处理 time.Duration
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// 支持逗号分隔的字符串切片
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// =============================================================================
// 🔍 辅助函数
// =============================================================================

// MustLoad 加载配置，失败时 panic
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// LoadFromEnv 仅从环境变量加载配置
func LoadFromEnv() (*Config, error) {
	return NewLoader().Load()
}

// Validate 验证配置
func (c *Config) Validate() error {
	var errs []string

	if c.Run.BudgetUSD < 0 {
		errs = append(errs, "budget_usd must not be negative")
	}
	if c.Run.Deadline < 0 {
		errs = append(errs, "deadline must not be negative")
	}
	if c.Run.Mode != "" && !collab.Mode(c.Run.Mode).Valid() {
		errs = append(errs, "unknown collaboration mode: "+c.Run.Mode)
	}
	for provider, r := range c.Rates {
		if r.InputPerMTok < 0 || r.OutputPerMTok < 0 {
			errs = append(errs, "negative rate for provider "+provider)
		}
	}
	for mode, m := range c.Multipliers {
		if m <= 0 {
			errs = append(errs, "multiplier for "+mode+" must be positive")
		}
	}
	if c.Engine.CallsPerSecond < 0 {
		errs = append(errs, "calls_per_second must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// RateTable 返回内置费率表叠加配置覆盖后的费率表
func (c *Config) RateTable() budget.RateTable {
	t := budget.DefaultRateTable()
	for provider, r := range c.Rates {
		t[provider] = r
	}
	return t
}

// MultiplierTable 返回内置系数表叠加配置覆盖后的系数表
func (c *Config) MultiplierTable() budget.Multipliers {
	m := budget.DefaultMultipliers()
	for mode, v := range c.Multipliers {
		m[mode] = v
	}
	return m
}

// ApplyContextWindows 把上下文窗口覆盖写入全局模型表
func (c *Config) ApplyContextWindows() {
	for model, w := range c.ContextWindows {
		llm.SetContextWindow(model, w)
	}
}

// RunOptions 把运行默认值转换为 collab.RunOptions 雏形
// （Prompt 由调用方填充）
func (c *Config) RunOptions() collab.RunOptions {
	return collab.RunOptions{
		Mode:            collab.Mode(c.Run.Mode),
		Agents:          c.Run.Agents,
		BudgetUSD:       c.Run.BudgetUSD,
		Deadline:        c.Run.Deadline,
		Style:           c.Run.Style,
		ToleratePartial: c.Run.ToleratePartial,
		ParallelPhases:  c.Run.ParallelPhases,
	}
}
