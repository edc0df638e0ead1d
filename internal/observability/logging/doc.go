// Package logging builds the process logger. Records are JSON, and the
// request id and trace id found in the record's context are attached to
// every entry.
package logging
