// Package analysis builds per-clip analysis records and turns detected
// markers into ordered segments. It also houses the marker-free fallback:
// quote scoring, sentiment, topic buckets, natural edit points, and
// filename-convention metadata.
package analysis
