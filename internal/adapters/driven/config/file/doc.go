// Package file loads vaultscribe configuration from a TOML file.
// Configuration is validated at load time; an invalid file fails startup
// before any event is processed.
package file
