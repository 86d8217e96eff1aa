// Package contrib provides the contribution-day model and the 30-day summary.
//
// A Day pairs a calendar date with the number of contributions recorded on it.
// Summarize folds any collection of days into Stats: the total over the trailing
// window, the streak of active days ending today, and the most recent active day.
// Failures upstream are carried as sentinel Stats built with Failed.
package contrib
