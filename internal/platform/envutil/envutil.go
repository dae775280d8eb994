package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

func String(name, def string, log *logger.Logger) string {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		if log != nil {
			log.Debug("Environment variable not set, using default", "env_var", name, "default", def)
		}
		return def
	}
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable is not an int, using default", "env_var", name, "value", v, "default", def)
		}
		return def
	}
	return i
}

func Float(name string, def float64, log *logger.Logger) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable is not a float, using default", "env_var", name, "value", v, "default", def)
		}
		return def
	}
	return f
}

func Bool(name string, def bool, log *logger.Logger) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(name))) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		if log != nil {
			log.Warn("Environment variable is not a bool, using default", "env_var", name, "default", def)
		}
		return def
	}
}
