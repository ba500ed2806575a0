// Implements the pinion command-line interface.
//
// The CLI is a thin wrapper over the evaluation core: it loads the project
// descriptor and lock file, reads pinned index documents from the local
// store, runs the evaluation driver, and writes the resulting recipe
// mapping for the external builder. 'build' emits package recipes, 'shell'
// emits development shell recipes, and both exit non-zero when any
// platform's evaluation failed while still emitting the entries that
// succeeded.
package cli
