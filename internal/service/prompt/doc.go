// Package prompt asks the operator yes/no questions.
//
// Answers are read line by line through readline. The same line reader also
// backs Console, which feeds typed lines to the server process so only one
// reader ever consumes the terminal.
package prompt
