// Package file implements the "file" action namespace: open, save,
// save-as, and revert operations against the filesystem capability.
package file
