// Package bootstrap sets up a Minecraft Java server directory.
//
// Run walks the setup stages in order: download server.jar, run it once so it
// writes eula.txt, ask the operator to accept the EULA, and optionally start
// the server in the foreground. Every failure is returned to the caller with
// its error kind from package setup; nothing is retried.
package bootstrap
