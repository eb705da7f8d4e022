package ride

import "github.com/shubinsengi1/ubertest/internal/domain/models"

// nextAverage folds one more score into a running rating summary.
func nextAverage(current models.RatingSummary, score int) models.RatingSummary {
	total := current.Average*float64(current.Count) + float64(score)
	count := current.Count + 1
	return models.RatingSummary{
		Average: total / float64(count),
		Count:   count,
	}
}
