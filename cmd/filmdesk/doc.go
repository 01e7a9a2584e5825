// Package main hosts the filmdesk CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the internal
// packages: the session gate for sign-in, the form controller for adding and
// editing works, and the catalog client for browsing. Configuration loading,
// session id resolution, and logger setup are centralized here so commands
// only deal with flags and output.
package main
