// Package artifact resolves and downloads the Minecraft server jar.
//
// Resolver reads Mojang's version manifest and the per-version metadata to
// find the server download URL and its SHA-1. Fetcher downloads a URL to a
// temporary file next to the destination, verifies it, and swaps it into
// place with go-update, so a failed download never leaves a partial jar.
package artifact
