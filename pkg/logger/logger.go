package logger

import (
	"path/filepath"

	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultFileName   = "flashloan.log"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 7
	defaultMaxAgeDays = 30
)

// LogOption 日志初始化参数
type LogOption struct {
	Format   string // "console" 或 "json"
	LogDir   string // 为空时输出到控制台
	Level    string // debug / info / error / severe
	Compress bool   // 是否压缩旧日志文件
}

// Setup 按配置初始化 logx；设置了 LogDir 时写入按大小滚动的日志文件
func Setup(opt LogOption) {
	encoding := "plain"
	if opt.Format == "json" {
		encoding = "json"
	}
	level := opt.Level
	if level == "" {
		level = "info"
	}

	logx.MustSetup(logx.LogConf{
		Mode:     "console",
		Encoding: encoding,
		Level:    level,
		Stat:     false,
	})
	logx.DisableStat()

	if opt.LogDir != "" {
		logx.SetWriter(logx.NewWriter(&lumberjack.Logger{
			Filename:   filepath.Join(opt.LogDir, defaultFileName),
			MaxSize:    defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAgeDays,
			Compress:   opt.Compress,
		}))
	}
}

func Infof(format string, v ...any) {
	logx.Infof(format, v...)
}

func Errorf(format string, v ...any) {
	logx.Errorf(format, v...)
}
