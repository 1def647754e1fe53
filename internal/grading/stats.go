package grading

import (
	"math"
	"sort"
)

// PassingScore is the minimum final grade considered a pass on the 0-20
// scale. All consumers (reports, exports, statistics) share this threshold.
const PassingScore = 10.0

// MaxScore is the upper bound of the grading scale.
const MaxScore = 20.0

// DistributionBuckets is the number of histogram buckets in Stats. Buckets
// cover [0,4), [4,8), [8,12), [12,16) and [16,20].
const DistributionBuckets = 5

// ScoredEntry is a labeled score fed into ComputeStatistics, typically a
// student display name paired with a final grade.
type ScoredEntry struct {
	Label string
	Score float64
}

// Stats holds descriptive statistics over a set of scored entries.
type Stats struct {
	Count        int
	Average      float64
	Highest      float64
	Lowest       float64
	Passed       int
	Failed       int
	PassRate     float64
	Distribution [DistributionBuckets]int
	PassedList   []ScoredEntry
	FailedList   []ScoredEntry
}

// ComputeStatistics derives statistics from the given entries. An empty
// input yields all-zero statistics and empty lists rather than an error.
// Average and PassRate are rounded to two decimals.
func ComputeStatistics(entries []ScoredEntry) Stats {
	stats := Stats{
		PassedList: []ScoredEntry{},
		FailedList: []ScoredEntry{},
	}
	if len(entries) == 0 {
		return stats
	}

	stats.Count = len(entries)
	stats.Highest = entries[0].Score
	stats.Lowest = entries[0].Score

	sum := 0.0
	for _, entry := range entries {
		sum += entry.Score
		if entry.Score > stats.Highest {
			stats.Highest = entry.Score
		}
		if entry.Score < stats.Lowest {
			stats.Lowest = entry.Score
		}

		stats.Distribution[bucketFor(entry.Score)]++

		if entry.Score >= PassingScore {
			stats.Passed++
			stats.PassedList = append(stats.PassedList, entry)
		} else {
			stats.Failed++
			stats.FailedList = append(stats.FailedList, entry)
		}
	}

	stats.Average = Round2(sum / float64(len(entries)))
	stats.PassRate = Round2(float64(stats.Passed) / float64(len(entries)) * 100)

	sortByScoreDesc(stats.PassedList)
	sortByScoreDesc(stats.FailedList)

	return stats
}

// Round2 rounds to two decimal places, the precision used everywhere a
// grade or percentage is displayed.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// bucketFor maps a score in [0,20] to its histogram bucket. Each bucket
// spans 4 points; 20 lands in the last bucket so the partition covers the
// closed upper bound.
func bucketFor(score float64) int {
	bucket := int(score / 4)
	if bucket < 0 {
		return 0
	}
	if bucket >= DistributionBuckets {
		return DistributionBuckets - 1
	}
	return bucket
}

func sortByScoreDesc(entries []ScoredEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}
