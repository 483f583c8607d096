package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env-required:"true"`
	StoragePath string `yaml:"storage_path" env-required:"true"`
	HTTPServer  `yaml:"http_server"`
	Media       `yaml:"media"`
	Share       `yaml:"share"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	TmpDir      string        `yaml:"tmp_dir" env-default:"./tmp"`
}

type Media struct {
	MaxSizeMB      float64 `yaml:"max_size_mb" env:"MAX_VIDEO_SIZE_MB" env-default:"25"`
	MinDurationSec float64 `yaml:"min_duration_sec" env:"MIN_VIDEO_DURATION_SEC" env-default:"5"`
	MaxDurationSec float64 `yaml:"max_duration_sec" env:"MAX_VIDEO_DURATION_SEC" env-default:"300"`
	SourceDir      string  `yaml:"source_dir" env-required:"true"`
	TrimDir        string  `yaml:"trim_dir" env-required:"true"`
	MergeDir       string  `yaml:"merge_dir" env-required:"true"`
	OutputCodec    string  `yaml:"output_codec" env-default:"libx264"`
}

type Share struct {
	SiteURL string        `yaml:"site_url" env:"SITE_URL" env-default:"http://127.0.0.1:8080"`
	LinkTTL time.Duration `yaml:"link_ttl" env-default:"15m"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
