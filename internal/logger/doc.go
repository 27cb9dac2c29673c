// Package logger wraps zap with a global sugared logger and context helpers.
//
// Services receive a context and log through it (Info, InfoKV, ErrorKV, ...),
// so names and fields attached with WithName/WithKV follow the call chain.
package logger
