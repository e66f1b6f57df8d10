package config

import "os"

// ExpandEnv expands environment variables in YAML content using Go's standard library.
// Supports both ${VAR} and $VAR syntax (standard shell-style).
//
// Examples:
//   - ${ALIF_API_LISTEN_ADDR} → value of ALIF_API_LISTEN_ADDR environment variable
//   - $HOME → value of HOME environment variable
//   - ${ALIF_CORS_ORIGIN}/dashboard → a full URL with the variable expanded
//
// Missing variables expand to empty string. Validation should catch required fields that are empty.
func ExpandEnv(data []byte) []byte {
	expanded := os.ExpandEnv(string(data))
	return []byte(expanded)
}
