// Package launcher starts the Minecraft server as a child process.
//
// Runner builds the fixed java command line (heap flags, -jar, nogui), runs it
// once to let the server generate eula.txt, or launches it in the foreground
// with the operator's terminal attached. WriteScripts renders start.sh and
// start.bat with the same command line.
package launcher
