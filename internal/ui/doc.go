// Package ui provides terminal output styling for the kasalink CLI:
// a shared lipgloss color palette and a column-aligned table renderer
// for device listings.
package ui
