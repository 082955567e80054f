// Package configs provides embedded configuration files for blogfolio.
package configs

import "embed"

// EmbeddedConfigs exposes embedded configuration files for read-only access.
//
//go:embed *.yaml
var EmbeddedConfigs embed.FS
