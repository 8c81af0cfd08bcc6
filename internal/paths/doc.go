// Package paths centralizes filesystem locations for autorel: the canonical
// artifact names written at the project root (.autorelrc.*, .env, .gitignore)
// and the XDG user-level directories for defaults and state.
package paths
