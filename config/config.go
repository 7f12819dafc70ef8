package config

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

type MediationConf struct {
	N    int    `yaml:"n"`
	Seed uint64 `yaml:"seed"`
}

type SurveyConf struct {
	DemoFile string `yaml:"demofile"`
	BmxFile  string `yaml:"bmxfile"`
	BpxFile  string `yaml:"bpxfile"`
}

type Config struct {
	Mediation MediationConf `yaml:"mediation"`
	Survey    SurveyConf    `yaml:"survey"`
	LogFile   string        `yaml:"logfile"`
}

// 用 atomic.Value 存当前配置, 读取无锁
var cfgValue atomic.Value // stores *Config

func defaults() *Config {
	return &Config{
		Mediation: MediationConf{N: 400, Seed: 20240915},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	c := defaults()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// 规范化: 路径去空格, 非法样本量打回默认
	c.Survey.DemoFile = strings.TrimSpace(c.Survey.DemoFile)
	c.Survey.BmxFile = strings.TrimSpace(c.Survey.BmxFile)
	c.Survey.BpxFile = strings.TrimSpace(c.Survey.BpxFile)
	if c.Mediation.N <= 0 {
		c.Mediation.N = 400
	}

	return c, nil
}

// Init 读文件并挂到全局; path为空时直接用默认值
func Init(path string) error {
	if path == "" {
		cfgValue.Store(defaults())
		return nil
	}
	c, err := Load(path)
	if err != nil {
		return err
	}
	cfgValue.Store(c)
	return nil
}

func Get() *Config {
	cAny := cfgValue.Load()
	if cAny == nil {
		return defaults()
	}
	return cAny.(*Config)
}
