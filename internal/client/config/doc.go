// Package config loads runtime configuration for the dream journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the dream journal API
//	-d string   path to the local sqlite cache
//	-t string   path to a file holding the Firebase ID token
//	-i int      online status check interval (seconds)
//	-p int      remote listing page size
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://dreams.example.com/api",
//	  "cache_dsn": "dreams.db",
//	  "token_file": "~/.dreamjournal/token",
//	  "online_check_interval": "3s",
//	  "page_size": 10
//	}
//
// This package does not read environment variables; use the JSON file or
// flags to configure values.
package config
