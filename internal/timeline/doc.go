// Package timeline renders rough-cut plans as editor interchange files:
// CMX-style EDLs (main cut, removed footage, hook tests) and FCPXML 1.9.
// A small EDL reader supports verification and re-import of exported cuts.
package timeline
