package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"task-agent/internal/application/port/output"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

type EnvService struct {
	lookup func(string) (string, bool)
}

// NewEnvService loads .env and then .env.<APP_ENV> on top of the process
// environment. Missing files are fine: in Lambda everything comes from the
// function configuration.
func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file found, using process environment")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	return &EnvService{lookup: os.LookupEnv}
}

// FromMap serves values from m only. Used by tests and by callers that
// already parsed a dotenv file with godotenv.Read.
func FromMap(m map[string]string) *EnvService {
	return &EnvService{lookup: func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}}
}

func (e *EnvService) Get(key string) string {
	val, _ := e.lookup(key)
	return strings.TrimSpace(val)
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := e.Get(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
