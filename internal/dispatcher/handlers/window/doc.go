// Package window implements the "window" action namespace: split
// creation, focus movement between splits, and split resizing.
package window
