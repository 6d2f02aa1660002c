// Package commands defines the skucheck CLI.
//
// Commands
//
//   - validate  Annotate a catalog file and write the processed export
//   - batch     Validate every catalog in a directory
//   - parse     Print the quantity extracted from each description
//   - serve     Start the HTTP API
//   - version   Print build information
//
// The root command loads the configuration and the logger before any
// subcommand runs. Logs go to stderr; reports go to stdout.
package commands
