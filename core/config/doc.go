// Package config assembles the application configuration from environment
// variables and an optional .env file.
//
// Defaults are declared as struct tags on the partial config types owned by
// each package (server, logger, database, storage, source, catalog, sync)
// and registered in viper through reflection, so every key is overridable
// through the environment using its upper-cased, underscore-joined path
// (e.g. source.client_id becomes SOURCE_CLIENT_ID).
package config
