package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvOrDefault returns the value of the environment variable key, or
// fallback if it is unset or empty.
func EnvOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// EnvOrDefaultInt is EnvOrDefault for an integer-valued variable, falling
// back when the variable is unset or does not parse.
func EnvOrDefaultInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// ProviderAuthValue resolves the auth value for a configured provider kind
// per §6's env var convention: RPC_PROXY_<KIND>_API_KEY, falling back to
// RPC_PROXY_<KIND>_PROJECT_ID, then RPC_PROXY_<KIND>_API_TOKENS.
func ProviderAuthValue(kind string) string {
	upper := strings.ToUpper(kind)
	for _, suffix := range []string{"API_KEY", "PROJECT_ID", "API_TOKENS"} {
		key := fmt.Sprintf("RPC_PROXY_%s_%s", upper, suffix)
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
	}
	return ""
}
