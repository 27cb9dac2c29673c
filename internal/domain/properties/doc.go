// Package properties models the key=value text files written by the Minecraft
// server (eula.txt, server.properties).
//
// A Document keeps every line as it was read, including comments and line
// endings, so rewriting one value leaves the rest of the file byte-identical.
package properties
