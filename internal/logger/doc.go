// Package logger wraps zap for the updater:
//   - a global sugared logger writing colored console lines,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and adjustment at runtime.
//
// Services never hold a logger; they receive a context and log through it,
// so every line carries the name of the stage that produced it.
package logger
