// Package config manages user-level settings stored at ~/.zgent/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the entity data directory, the artifact root used by the CRUD engine, the
// operation history capacity and the log level.
package config
