// Package server holds the configuration for the HTTP trigger surface.
//
// The engine itself is a library; the server is the thin layer that lets a
// scheduler or an operator start a sync over HTTP.
package server
