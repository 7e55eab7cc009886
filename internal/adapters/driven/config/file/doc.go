// Package file persists combimatch settings as TOML under the user's
// config directory (~/.combimatch by default).
package file
