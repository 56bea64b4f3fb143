// Package tracker holds the state of one paper carbon form: the current
// selections, the last calculation result and the badge overlay. A Tracker is
// owned by a single caller at a time; it performs no locking of its own.
package tracker
