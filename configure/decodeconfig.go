package configure

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/kr/pretty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

/*
{
  "level": "info",
  "config_file": "flvdec.yaml",
  "max_amf_depth": 32,
  "strict_prev_tag_size": false
}
*/

// DecodeCfg is the full configuration surface of the decoder.
type DecodeCfg struct {
	Level             string `mapstructure:"level"`
	ConfigFile        string `mapstructure:"config_file"`
	MaxAMFDepth       int    `mapstructure:"max_amf_depth"`
	StrictPrevTagSize bool   `mapstructure:"strict_prev_tag_size"`
}

var defaultConf = DecodeCfg{
	Level:             "info",
	ConfigFile:        "flvdec.yaml",
	MaxAMFDepth:       32,
	StrictPrevTagSize: false,
}

var Config = viper.New()

func initLog() {
	if l, err := log.ParseLevel(Config.GetString("level")); err == nil {
		log.SetLevel(l)
		log.SetReportCaller(l == log.DebugLevel)
	}
}

func init() {
	// Default config
	b, _ := json.Marshal(defaultConf)
	defaultConfig := bytes.NewReader(b)
	v := viper.New()
	v.SetConfigType("json")
	v.ReadConfig(defaultConfig)
	Config.MergeConfigMap(v.AllSettings())

	// Environment
	replacer := strings.NewReplacer(".", "_")
	Config.SetEnvKeyReplacer(replacer)
	Config.AllowEmptyEnv(true)
	Config.AutomaticEnv()

	initLog()
}

// Init layers command-line flags and an optional config file on top of
// the defaults and environment. Embedding callers that manage their own
// flags can skip it.
func Init() {
	pflag.String("config_file", defaultConf.ConfigFile, "configure filename")
	pflag.String("level", defaultConf.Level, "log level")
	pflag.Int("max_amf_depth", defaultConf.MaxAMFDepth, "script data nesting limit")
	pflag.Bool("strict_prev_tag_size", defaultConf.StrictPrevTagSize, "treat previous tag size mismatches as fatal")
	pflag.Parse()
	Config.BindPFlags(pflag.CommandLine)

	// File
	Config.SetConfigFile(Config.GetString("config_file"))
	Config.AddConfigPath(".")
	if err := Config.ReadInConfig(); err != nil {
		log.Warn(err)
		log.Info("using default config")
	} else {
		log.Info("using config file: ", Config.ConfigFileUsed())
	}

	initLog()

	c := DecodeCfg{}
	Config.Unmarshal(&c)
	log.Debugf("current configurations: \n%# v", pretty.Formatter(c))
}

// CheckAppName reports whether name is usable as a cache key segment.
func CheckAppName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "/ ")
}
