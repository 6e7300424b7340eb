// Package config provides configuration structures and utilities for legalscan.
// It defines the main configuration options for crawling legal documents,
// LLM provider credentials, and report generation preferences.
package config
