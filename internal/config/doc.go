// Package config manages user-level settings stored at ~/.nepeta/config.yaml
// and NEPETA_* environment variables. It owns the feature gate that decides
// whether extensions are loaded at all, and resolves the extensions root.
package config
