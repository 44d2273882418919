// Package logger provides the application's structured logging built on zap.
//
// It supports two encodings (json for production, console for interactive
// use) and two helpers for contextual fields: WithRayID attaches the
// per-request ray id on the HTTP path, WithPhase attaches the sync phase on
// the engine path.
package logger
