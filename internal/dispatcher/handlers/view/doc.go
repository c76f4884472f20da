// Package view implements the "view" action namespace: scrolling,
// centering, and viewport-relative cursor placement.
package view
