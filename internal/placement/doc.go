// Package placement copies the template tree into a target project. What
// happens to each asset is decided by a static table of rules (see
// DefaultRules): root configuration files are either refreshed on every
// run or left alone once present, and the app/, components/, and lib/
// trees are merged into src/ without touching files the user already has,
// except for a short list of files that are always refreshed.
//
// Rules are independent of each other, so a run can be repeated safely:
// the second run reports SkippedExisting where the first reported Created
// and leaves the files as they were.
package placement
