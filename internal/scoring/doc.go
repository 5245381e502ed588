// Package scoring compares predictions with actual results, sums scores,
// measures tiebreaker distances, tracks completion and ranks participants.
//
// Every function is pure: inputs are never modified and identical inputs
// always produce identical outputs.
package scoring
