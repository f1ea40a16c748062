package db

import (
	"github.com/spf13/viper"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SetPostgresDefaults registers the db.* keys so they bind to DB_HOST,
// DB_PORT, ... in the environment.
func SetPostgresDefaults(v *viper.Viper) {
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "admissions")
	v.SetDefault("db.sslmode", "disable")
}

func LoadPostgresConfig(v *viper.Viper) PostgresConfig {
	return PostgresConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		DBName:   v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
	}
}
