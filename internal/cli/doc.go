// Package cli provides the command-line interface: the cobra command tree,
// flag definitions, and viper configuration loading.
package cli
