package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ibragimovrs/library-catalog/pkg/kafka"
	"github.com/ibragimovrs/library-catalog/pkg/logger"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

// Store holds the locations of the three flat-file collections.
type Store struct {
	BooksFile   string `yaml:"booksFile" envconfig:"BOOKS_FILE" default:"library_books.txt"`
	UsersFile   string `yaml:"usersFile" envconfig:"USERS_FILE" default:"library_users.txt"`
	BorrowsFile string `yaml:"borrowsFile" envconfig:"BORROWS_FILE" default:"library_borrows.txt"`
}

type Config struct {
	Server HTTPServer   `yaml:"server"`
	Store  Store        `yaml:"store"`
	Kafka  kafka.Config `yaml:"kafka"`
	Log    logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
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
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
