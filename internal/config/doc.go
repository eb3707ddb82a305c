// Package config defines configuration for the symfetch CLI.
//
// Configuration is layered, later sources overriding earlier ones:
//   - Defaults (Default)
//   - YAML configuration file (LoadFromFile)
//   - Environment variables with the SYMFETCH_ prefix (LoadFromEnv)
//   - Command-line flags that were explicitly set
//
// # YAML
//
//	base_url: http://www.blissymbolics.net/png_h188_doc
//	out: s3://symbols/h188?region=eu-west-1
//	workers: 8
//	throttle: 50ms
//	timeout: 20s
//	retries: 2
//	retry_backoff: 250ms
//	log:
//	  level: debug
//	  format: json
//
// # Environment
//
//	SYMFETCH_BASE_URL, SYMFETCH_OUT, SYMFETCH_WORKERS, SYMFETCH_RETRIES,
//	SYMFETCH_LOG_LEVEL, SYMFETCH_LOG_FILE, ...
package config
