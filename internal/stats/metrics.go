// Package stats contains reading metrics and plain-text table output.
package stats

import "time"

// WordMetrics computes words per minute over correct words and accuracy over attempted
// words.
func WordMetrics(correct, attempted int, elapsed time.Duration) (wpm, accuracy float64) {
	if attempted > 0 {
		accuracy = float64(correct) / float64(attempted)
	}
	if elapsed <= 0 {
		return 0, accuracy
	}
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0, accuracy
	}
	wpm = float64(correct) / minutes
	return wpm, accuracy
}
