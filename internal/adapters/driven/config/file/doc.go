// Package file loads the TOML configuration file.
//
// Configuration is validated once at startup; a missing vault or malformed
// source definition fails the process before any sync runs, wrapped in
// domain.ErrConfig.
package file
