// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of sensitive values (API keys, tokens, secrets)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log
// output:
//   - HTTP headers (Authorization, Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (passwords, tokens, keys)
//   - LLM provider credentials (Google AI and Groq API key formats)
//
// The crawler talks to third-party LLM APIs whose keys arrive through
// configuration and environment variables, so key material can easily end
// up inside request URLs and error strings. Even in verbose mode,
// sensitive values are masked to prevent accidental exposure of secrets
// in logs that may be shared or stored.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("provider request",
//	    "api_key", "gsk_abc123",  // Will be sanitized
//	    "url", "https://example.com/privacy",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
