// Package roughcut assembles analyzed clips into a RoughCutPlan. One
// engine instance handles one generation: marker-driven cuts when slate
// commands are present, a narrative arc for smart documentary cuts, and a
// quality-ranked assembly otherwise. Style tuning lives in a single static
// table.
package roughcut
