// Package main provides the entry point for the legalscan CLI.
//
// legalscan crawls websites for legal documents (privacy policies, terms
// of service, and similar pages), analyzes them with LLM providers, and
// produces structured reports.
//
// Usage:
//
//	legalscan crawl <site-url>
//	legalscan documents --search <query>
//
// See --help for all available options.
package main

// main is the entry point for legalscan.
func main() {
	Execute()
}
