// Package platform holds process-level wiring shared by every entry
// point: environment configuration and logger construction.
package platform

import (
	"os"
	"strconv"
	"strings"
)

// GetEnv reads a string environment variable with a default.
func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// GetEnvInt reads an integer environment variable with a default.
func GetEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetEnvBool reads a boolean environment variable with a default.
// "true" and "1" count as true, anything else as false.
func GetEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return strings.ToLower(val) == "true" || val == "1"
	}
	return defaultVal
}
