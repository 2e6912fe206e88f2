// Package progress advances subscribers through the drip course.
//
// One Run scans every subscription, asks the eligibility policy whether the
// subscriber gets an email today, triggers it through the email client and
// records the new progress. Each subscriber is independent: a failure is
// logged and the run moves on. Only a failure to list subscribers aborts
// the run.
//
// Runs keep no state of their own. Eligibility is recomputed from stored
// progress every time, so a killed run is resumed by simply running again.
// Concurrent runs are not coordinated and may send twice.
package progress
