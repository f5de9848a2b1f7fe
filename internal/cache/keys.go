package cache

import "strings"

const (
	GlobalKeyPrefix = "unrot"
)

// GenerateKey builds a namespaced Redis key for a given service, object type,
// and identifier.
func GenerateKey(serviceName, objectType, identifier string) string {
	return strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
}
