// Package config manages the kasalink user configuration file.
//
// The file is YAML at the platform config dir (for example
// ~/.config/kasalink/config.yaml) and stores purely client-side state:
// user-assigned nicknames mapping to device addresses, and CLI
// preferences such as the default discovery window. No device state is
// persisted; the library itself always starts cold.
//
// Saves are atomic (temp file + rename) so a crash cannot leave a
// half-written file behind.
package config
