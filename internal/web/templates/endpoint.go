// Package templates holds the HTML components served by the web handlers.
package templates

// Endpoint is one row of the API table on the index page.
type Endpoint struct {
	Method      string
	Path        string
	Description string
}
