package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Drivers de banco aceitos.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// Banco
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	DBSSLMode     string `mapstructure:"DB_SSLMODE"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	DBAutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE"`

	// Autenticação
	JWTSecret       string   `mapstructure:"JWT_SECRET"`
	RestrictedRoles []string `mapstructure:"RESTRICTED_ROLES"`

	// Ingestão
	MaxFileSizeMB  int64 `mapstructure:"MAX_FILE_SIZE_MB"`
	WriteBatchSize int   `mapstructure:"WRITE_BATCH_SIZE"`
}

// Load lê a configuração do ambiente e de um .env opcional.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Println("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_PORT", "8084")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "dashboard")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "ingestion.db")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("RESTRICTED_ROLES", "guest")

	v.SetDefault("MAX_FILE_SIZE_MB", 20)
	v.SetDefault("WRITE_BATCH_SIZE", 500)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("ENV"),
		ServerPort:  v.GetString("SERVER_PORT"),

		DBDriver:      strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSLMODE"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		DBAutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),

		JWTSecret:       v.GetString("JWT_SECRET"),
		RestrictedRoles: splitList(v.GetString("RESTRICTED_ROLES")),

		MaxFileSizeMB:  v.GetInt64("MAX_FILE_SIZE_MB"),
		WriteBatchSize: v.GetInt("WRITE_BATCH_SIZE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate confere os campos obrigatórios para o driver escolhido.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBUser == "" {
			return fmt.Errorf("DB_USER is required")
		}
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER inválido: %q (use postgres ou sqlite)", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive")
	}
	if c.WriteBatchSize <= 0 {
		return fmt.Errorf("WRITE_BATCH_SIZE must be positive")
	}
	return nil
}

// GetDatabaseURL monta a DSN do PostgreSQL.
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MaxFileSizeBytes devolve o limite de upload em bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB << 20
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LogConfig registra a configuração sem expor segredos.
func (c *Config) LogConfig() {
	log.Printf("Configuração carregada:")
	log.Printf("  Ambiente: %s", c.Environment)
	log.Printf("  Porta: %s", c.ServerPort)
	if c.DBDriver == DriverSQLite {
		log.Printf("  Banco: sqlite (%s)", c.SQLitePath)
	} else {
		log.Printf("  Banco: %s:%s/%s", c.DBHost, c.DBPort, c.DBName)
	}
	log.Printf("  Tamanho máximo de arquivo: %d MB", c.MaxFileSizeMB)
	log.Printf("  Papéis restritos: %v", c.RestrictedRoles)
	if c.JWTSecret != "" {
		log.Printf("  JWT_SECRET: [CONFIGURADO]")
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
