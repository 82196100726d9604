// Package notify provides user-facing console notifications with consistent
// styling (colors and symbols) across all sky-local commands.
package notify
