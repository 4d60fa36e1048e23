// Package urls holds the documentation links shown in help text and
// troubleshooting hints, so they can be updated in one place.
//
// Usage:
//
//	import "github.com/muurk/tasmota/internal/urls"
//
//	fmt.Printf("Command reference: %s\n", urls.CommandReference)
package urls
