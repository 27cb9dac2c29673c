// Package setup contains the domain types of the server bootstrap workflow.
//
// It defines the Stage state machine walked by the bootstrapper, the operator
// decisions that branch it, and the error kinds every layer wraps so the CLI
// can report failures by category.
package setup
