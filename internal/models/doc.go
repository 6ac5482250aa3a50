// Package models lists the models pulled on the configured Ollama server.
package models
