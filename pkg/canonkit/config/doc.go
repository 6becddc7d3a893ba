// Package config provides a typed wrapper over loosely-structured
// configuration maps, with loaders for YAML and JSON documents.
//
// All accessor methods return default values if the key is missing or the
// value cannot be converted to the requested type; loading is the only
// operation that can fail.
package config
