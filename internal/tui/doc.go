// Package tui implements the interactive device browser for the
// kasalink CLI: scan the network, list the devices found, and toggle
// power on the selected one without leaving the terminal.
package tui
