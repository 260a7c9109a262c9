package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	MongoURI      string `envconfig:"MONGO_URI" required:"true"`
	DatabaseName  string `envconfig:"DATABASE_NAME" default:"edgepay"`
	Port          int    `envconfig:"PORT" default:"8080"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	JWTSecret     []byte `envconfig:"JWT_SECRET"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
