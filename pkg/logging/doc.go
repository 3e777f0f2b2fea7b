// Package logging configures the process-wide structured logger.
//
// The package is a thin layer over Go's standard slog: it parses the level
// name given on the command line and installs a text handler as the slog
// default. All other packages log through slog directly with key-value
// attributes.
//
// # Usage
//
//	import "github.com/oilstone/plantimer-auth0/pkg/logging"
//
//	level, err := logging.ParseLevel(flagValue)
//	if err != nil {
//	    return err
//	}
//	logging.Init(level, os.Stderr)
//
// # Security
//
// Callers must never pass token values or other credentials as log
// attributes. The session and store packages log lifecycle events and key
// names only.
package logging
