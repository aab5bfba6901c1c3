// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: Connection string (default for sqlite: file:planner.db)
  - TokenSecret: Secret for bearer token signing (required)
  - LogLevel: debug, info, warn or error (default: info)
  - LogFormat: text or json (default: text)

# Sources

Values are resolved in this order, first match wins:

	CLI flag        -p  -d  -t  -token-secret  -log-level  -log-format  -c
	Environment     PORT DATABASE_URL DATABASE_TYPE TOKEN_SECRET LOG_LEVEL LOG_FORMAT CONFIG_FILE
	YAML file       port database_url database_type token_secret log_level log_format
	Defaults

A .env file in the working directory is loaded into the environment first;
variables already set are not replaced. The YAML file is read only when -c
or CONFIG_FILE names one.

# Validation

ParseFlags returns an error if:

  - TOKEN_SECRET is missing
  - the database type is not sqlite or postgres
  - postgres is selected without a database URL
*/
package cliparse
