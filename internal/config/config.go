package config

import (
	"fmt"
	"os"

	"flashloan-program/internal/consts"
	"flashloan-program/internal/logic/sysvar"
	"flashloan-program/internal/types"
	"flashloan-program/pkg/logger"

	"github.com/zeromicro/go-zero/core/conf"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Format   string `json:"format,default=console,options=console|json" yaml:"format"`      // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:"log_dir,optional" yaml:"log_dir"`                                 // 日志目录（可为相对路径或绝对路径），为空输出到控制台
	Level    string `json:"level,default=info,options=debug|info|error|severe" yaml:"level"` // 日志级别
	Compress bool   `json:"compress,optional" yaml:"compress"`                               // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// ProgramConfig 闪电贷程序部署信息
type ProgramConfig struct {
	ProgramID types.Pubkey `json:"program_id,optional" yaml:"program_id"` // 程序地址（base58），为空使用内置默认值
}

// StoreConfig 本地运行时的账户存储
type StoreConfig struct {
	Type      string `json:"type,default=memory,options=memory|redis" yaml:"type"`
	RedisAddr string `json:"redis_addr,optional" yaml:"redis_addr"` // Redis 地址，例如 127.0.0.1:6379
	RedisDB   int    `json:"redis_db,default=0" yaml:"redis_db"`
	KeyPrefix string `json:"key_prefix,optional" yaml:"key_prefix"` // 账户 key 前缀
}

// RentConfig rent sysvar 参数，默认值与链上一致
type RentConfig struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year,default=3480" yaml:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemption_threshold,default=2.0" yaml:"exemption_threshold"`
	BurnPercent         uint8   `json:"burn_percent,default=50,range=[0:100]" yaml:"burn_percent"`
}

func (c *RentConfig) ToRent() sysvar.Rent {
	return sysvar.Rent{
		LamportsPerByteYear: c.LamportsPerByteYear,
		ExemptionThreshold:  c.ExemptionThreshold,
		BurnPercent:         c.BurnPercent,
	}
}

// Config 主配置结构体
type Config struct {
	LogConf     LogConfig     `json:"logger" yaml:"logger"`   // 日志配置
	ProgramConf ProgramConfig `json:"program" yaml:"program"` // 程序配置
	StoreConf   StoreConfig   `json:"store" yaml:"store"`     // 账户存储配置
	RentConf    RentConfig    `json:"rent" yaml:"rent"`       // rent 参数
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Validate 校验字段之间的依赖，conf 加载完成后自动调用
func (c *Config) Validate() error {
	if c.StoreConf.Type == StoreRedis && c.StoreConf.RedisAddr == "" {
		return fmt.Errorf("store.redis_addr is required when store.type is redis")
	}
	if c.RentConf.LamportsPerByteYear == 0 || c.RentConf.ExemptionThreshold <= 0 {
		return fmt.Errorf("rent.lamports_per_byte_year and rent.exemption_threshold must be positive")
	}
	return nil
}

// Load 读取 YAML 配置，支持 ${ENV} 形式的环境变量替换
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse 解析 YAML 配置内容，默认值和取值范围由 conf 按 tag 处理
func Parse(raw []byte) (Config, error) {
	var c Config
	if err := conf.LoadFromYamlBytes([]byte(os.ExpandEnv(string(raw))), &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if c.ProgramConf.ProgramID.IsZero() {
		c.ProgramConf.ProgramID = consts.DefaultFlashloanProgram
	}
	return c, nil
}

// Dump 输出补全默认值后的有效配置（YAML）
func Dump(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// MustLoad 读取配置，失败直接退出
func MustLoad(path string) Config {
	c, err := Load(path)
	if err != nil {
		logger.Errorf("load config failed: %v", err)
		os.Exit(1)
	}
	return c
}
