package staticLog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 全局静态logger, 各包直接 staticLog.Log.Infof 使用
var Log = logrus.New()

func init() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.InfoLevel)
}

// InitFile 切换到滚动文件输出, path为空则维持stderr
func InitFile(path string) {
	if path == "" {
		return
	}
	rotate := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    64, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	Log.SetOutput(io.MultiWriter(os.Stderr, rotate))
}
