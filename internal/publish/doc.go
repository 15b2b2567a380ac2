// Package publish writes Ready videos into their slots' external records.
//
// A batch never fails as a whole: every requested video gets exactly one
// outcome (published, failed or skipped) in the report, in request order.
// Writes run on a bounded worker pool, each under its own timeout.
package publish
