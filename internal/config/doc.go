// Package config loads the cardkeeper settings.
//
// Values are applied in order, later sources winning:
//
//  1. Built-in defaults ((*Config).LoadDefaults).
//  2. A JSON settings file named by -c or -config.
//  3. Command-line flags:
//
//	-d string   data directory (database and local images)
//	-g string   game shown at start: magic or pokemon
//	-s string   image store: local or s3
//	-l string   log level: debug, info, warn or error
//
// Durations in the JSON file are strings such as "30s" or integer
// nanoseconds:
//
//	{
//	  "data_dir": "~/cards",
//	  "default_game": "pokemon",
//	  "database_driver": "sqlite",
//	  "image_store": "s3",
//	  "s3": {"endpoint": "http://localhost:9000", "bucket": "cards"},
//	  "http_timeout": "15s",
//	  "preview_cache_ttl": "1h"
//	}
//
// The settings command writes the file back with (*Config).Save.
package config
