// Package analyzer produces LLM-derived analyses of legal documents.
//
// Two provider adapters speak to external APIs: Gemini as the primary
// and Groq as the secondary. The Orchestrator tries the primary first
// and falls back to the secondary only for transient primary failures,
// bounded by a daily fallback quota. Provider responses are parsed
// strictly as JSON with a degraded regex extraction path for malformed
// output.
package analyzer
