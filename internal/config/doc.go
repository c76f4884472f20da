// Package config holds the handful of tunables the editor core actually
// consumes: chunk size, tab width, scroll margin, the large-file
// threshold, and the undo-group timeout. Configuration loading, schema
// export, and a settings UI are out of scope for this core (spec's
// external-collaborator list); this package is the thin options layer
// every subsystem's functional-options constructor reads from, not a
// general-purpose settings store.
package config
