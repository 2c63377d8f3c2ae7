// Package metrics implements the compression-ratio and SED-error
// statistics used as test oracles. It is not part of the streaming core:
// neither the pipeline nor cmd/hysoc calls it, and its own tests are its
// only callers in this module.
package metrics
