package env

import "os"

// Get reads an environment variable, falling back when it is unset or empty.
// An empty value counts as unset so a blank override cannot wipe a default.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
