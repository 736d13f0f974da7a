// Package file stores settings in a TOML file, by default
// ~/.coding/config.toml. Writes happen on every Set.
package file
