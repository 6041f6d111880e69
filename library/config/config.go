package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/circuitbreaker"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8060"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server         HTTPServer `yaml:"server"`
	Database       postgres.DB
	Log            logger.Log `yaml:"log"`
	Auth           auth.Config
	Kafka          kafka.Config
	CircuitBreaker circuitbreaker.Config
	Loans          service.Config
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment. Options set values that
// the environment may still override.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(config)
	})

	return cfg
}

func printConfig(cfg Config) {
	cfg.Database.Password = "***"
	cfg.Auth.Secret = "***"
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
