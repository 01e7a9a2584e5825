// Package form drives one catalog entry form session: loading an existing
// work for editing, applying edits, selecting a poster, uploading portrait
// images in the background, and submitting the result.
//
// A Controller is owned by a single form session. Its state is guarded by a
// mutex; background uploads and preview rendering apply their results under
// that lock and become no-ops once the controller is closed. Operator-facing
// outcomes (alerts and navigation back to the list) go through the Alerter and
// Navigator collaborators so the CLI and tests can observe them.
package form
