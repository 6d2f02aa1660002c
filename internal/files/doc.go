// Package files discovers catalog files for batch validation.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	catalogs, err := discovery.FindCatalogFiles("data")
package files
