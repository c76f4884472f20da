// Package search implements the "search" action namespace: pattern
// search with incremental match highlighting and next/previous match
// navigation.
package search
