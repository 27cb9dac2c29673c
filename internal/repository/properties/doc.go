// Package properties persists key=value documents on disk.
//
// FileRepository loads a file into a properties.Document and saves it back
// atomically: the new contents are written to a temporary file in the same
// directory, synced, and renamed over the original.
package properties
