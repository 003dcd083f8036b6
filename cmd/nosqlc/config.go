package main

import (
	"strings"

	"github.com/fyerfyer/fyer-nosql/nosql"
	"github.com/spf13/viper"
)

// config 命令行的连接配置，来源依次为命令行参数、环境变量、配置文件
type config struct {
	Dialect          string `mapstructure:"dialect"`
	Debug            bool   `mapstructure:"debug"`
	nosql.ConnParams `mapstructure:",squash"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("NOSQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("dialect", "mysql")
	v.SetDefault("debug", false)
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 0)
	v.SetDefault("user", "")
	v.SetDefault("password", "")
	v.SetDefault("database", "")
	v.SetDefault("driver", "")
	v.SetDefault("params", map[string]string{})
	return v
}

// loadConfig 读取配置文件，path 为空时只在当前目录查找 .nosqlc.yaml
func loadConfig(v *viper.Viper, path string) (*config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName(".nosqlc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
