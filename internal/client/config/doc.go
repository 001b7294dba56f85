// Package config loads runtime configuration for the gophauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. GOPHAUTH_CLIENT_* environment variables.
//  4. Command-line flags, which override everything before them.
//
// Supported flags
//
//	-a string     address:port of the gophauth gRPC endpoint
//	-o duration   timeout applied to each call
//	-f string     path of the local session database
//	-i duration   online status check interval, 0 disables
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "session_file": "gophauth-session.db",
//	  "online_check_interval": "30s"
//	}
package config
