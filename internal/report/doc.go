// Package report renders completed crawl sessions as Markdown or JSON.
package report
