package config

import (
	"fmt"
	"time"
)

// Config 应用配置结构体 [这里的字段和配置文件中一级字段保持一致，否则会没有值]
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`     // 服务器配置
	Database DatabaseConfig `yaml:"database" mapstructure:"database"` // 数据库配置
	Log      LogConfig      `yaml:"log" mapstructure:"log"`           // 日志配置
	Security SecurityConfig `yaml:"security" mapstructure:"security"` // 安全配置
	App      AppConfig      `yaml:"app" mapstructure:"app"`           // 应用配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string        `yaml:"host" mapstructure:"host"`                         // 服务器主机地址
	Port           int           `yaml:"port" mapstructure:"port"`                         // 服务器端口
	Mode           string        `yaml:"mode" mapstructure:"mode"`                         // 运行模式: debug, release, test
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`         // 读取超时时间
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`       // 写入超时时间
	IdleTimeout    time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`         // 空闲超时时间
	MaxHeaderBytes int           `yaml:"max_header_bytes" mapstructure:"max_header_bytes"` // 最大请求头字节数
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	MySQL MySQLConfig `yaml:"mysql" mapstructure:"mysql"` // MySQL配置
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"` // Redis配置
}

// MySQLConfig MySQL数据库配置
type MySQLConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`                             // 数据库主机
	Port            int           `yaml:"port" mapstructure:"port"`                             // 数据库端口
	Username        string        `yaml:"username" mapstructure:"username"`                     // 用户名
	Password        string        `yaml:"password" mapstructure:"password"`                     // 密码
	Database        string        `yaml:"database" mapstructure:"database"`                     // 数据库名
	Charset         string        `yaml:"charset" mapstructure:"charset"`                       // 字符集
	ParseTime       bool          `yaml:"parse_time" mapstructure:"parse_time"`                 // 是否解析时间
	Loc             string        `yaml:"loc" mapstructure:"loc"`                               // 时区
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`         // 最大空闲连接数
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`         // 最大打开连接数
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`   // 连接最大生存时间
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"` // 连接最大空闲时间
	LogLevel        string        `yaml:"log_level" mapstructure:"log_level"`                   // 日志级别
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`                     // Redis主机
	Port         int           `yaml:"port" mapstructure:"port"`                     // Redis端口
	Password     string        `yaml:"password" mapstructure:"password"`             // Redis密码
	Database     int           `yaml:"database" mapstructure:"database"`             // Redis数据库索引
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`           // 连接池大小
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"` // 最小空闲连接数
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`     // 连接超时
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`     // 读取超时
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`   // 写入超时
	PoolTimeout  time.Duration `yaml:"pool_timeout" mapstructure:"pool_timeout"`     // 连接池超时
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`     // 空闲超时
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`             // 日志级别
	Format     string `yaml:"format" mapstructure:"format"`           // 日志格式: json, text
	Output     string `yaml:"output" mapstructure:"output"`           // 输出方式: stdout, stderr, file
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`     // 日志文件路径
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // 单个日志文件最大大小(MB)
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // 保留的日志文件数量
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // 是否压缩日志文件
	Caller     bool   `yaml:"caller" mapstructure:"caller"`           // 是否显示调用者信息
	StackTrace bool   `yaml:"stack_trace" mapstructure:"stack_trace"` // 是否显示堆栈跟踪
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWT        JWTConfig        `yaml:"jwt" mapstructure:"jwt"`                 // JWT配置
	LoginGuard LoginGuardConfig `yaml:"login_guard" mapstructure:"login_guard"` // 登录防护配置
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`         // 日志中间件配置
	CORS       CORSConfig       `yaml:"cors" mapstructure:"cors"`               // CORS配置
	RateLimit  RateLimitConfig  `yaml:"rate_limit" mapstructure:"rate_limit"`   // 限流配置
}

// JWTConfig JWT配置
// 两段式令牌共用同一个过期时间,固定1小时,过期是唯一的失效机制
type JWTConfig struct {
	Secret      string        `yaml:"secret" mapstructure:"secret"`             // JWT密钥
	Issuer      string        `yaml:"issuer" mapstructure:"issuer"`             // 签发者
	TokenExpire time.Duration `yaml:"token_expire" mapstructure:"token_expire"` // 令牌过期时间
	Algorithm   string        `yaml:"algorithm" mapstructure:"algorithm"`       // 签名算法
}

// LoginGuardConfig 登录防护配置
// 失败计数存储在Redis中,超过阈值后锁定该用户名+IP组合
type LoginGuardConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`           // 是否启用登录防护
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"` // 锁定前允许的失败次数
	LockWindow  time.Duration `yaml:"lock_window" mapstructure:"lock_window"`   // 失败计数窗口/锁定时长
}

// LoggingConfig 日志中间件配置
type LoggingConfig struct {
	EnableRequestLog     bool          `yaml:"enable_request_log" mapstructure:"enable_request_log"`         // 是否启用请求日志
	SlowRequestThreshold time.Duration `yaml:"slow_request_threshold" mapstructure:"slow_request_threshold"` // 慢请求阈值
	SkipPaths            []string      `yaml:"skip_paths" mapstructure:"skip_paths"`                         // 跳过日志记录的路径
}

// CORSConfig CORS配置
type CORSConfig struct {
	Enabled          bool          `yaml:"enabled" mapstructure:"enabled"`                     // 是否启用CORS
	AllowAllOrigins  bool          `yaml:"allow_all_origins" mapstructure:"allow_all_origins"` // 是否允许所有源
	AllowOrigins     []string      `yaml:"allow_origins" mapstructure:"allow_origins"`         // 允许的源
	AllowMethods     []string      `yaml:"allow_methods" mapstructure:"allow_methods"`         // 允许的方法
	AllowHeaders     []string      `yaml:"allow_headers" mapstructure:"allow_headers"`         // 允许的请求头
	ExposeHeaders    []string      `yaml:"expose_headers" mapstructure:"expose_headers"`       // 暴露的响应头
	AllowCredentials bool          `yaml:"allow_credentials" mapstructure:"allow_credentials"` // 是否允许凭证
	MaxAge           time.Duration `yaml:"max_age" mapstructure:"max_age"`                     // 预检请求缓存时间
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool     `yaml:"enabled" mapstructure:"enabled"`                         // 是否启用限流
	RequestsPerSecond int      `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 每秒请求数限制
	BurstSize         int      `yaml:"burst_size" mapstructure:"burst_size"`                   // 突发请求数
	Strategy          string   `yaml:"strategy" mapstructure:"strategy"`                       // 限流策略
	WindowSize        string   `yaml:"window_size" mapstructure:"window_size"`                 // 窗口大小
	StatusCode        int      `yaml:"status_code" mapstructure:"status_code"`                 // 限流时返回的状态码
	Message           string   `yaml:"message" mapstructure:"message"`                         // 限流时返回的消息
	SkipPaths         []string `yaml:"skip_paths" mapstructure:"skip_paths"`                   // 跳过限流的路径
	SkipIPs           []string `yaml:"skip_ips" mapstructure:"skip_ips"`                       // 跳过限流的IP
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`               // 应用名称
	Version     string `yaml:"version" mapstructure:"version"`         // 应用版本
	Environment string `yaml:"environment" mapstructure:"environment"` // 运行环境
	Debug       bool   `yaml:"debug" mapstructure:"debug"`             // 是否调试模式
	Timezone    string `yaml:"timezone" mapstructure:"timezone"`       // 时区
}

// GetAddress 获取服务器完整地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment 判断是否为开发环境
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction 判断是否为生产环境
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// GetMySQLDSN 获取MySQL数据源名称
func (m *MySQLConfig) GetMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		m.Username, m.Password, m.Host, m.Port, m.Database, m.Charset, m.ParseTime, m.Loc)
}

// GetRedisAddress 获取Redis地址
func (r *RedisConfig) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
