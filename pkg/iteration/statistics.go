/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package iteration

import (
	"context"
	"sort"
)

const statisticsWindow = 100

// Statistics summarizes up to the last 100 attempts for a model.
func (c *Client) Statistics(ctx context.Context, modelName string) (*Statistics, error) {
	records, err := c.ListForModel(ctx, modelName, statisticsWindow)
	if err != nil {
		return nil, err
	}
	stats := &Statistics{
		ModelName:     modelName,
		TotalAttempts: len(records),
		CommonDefects: map[string]int{},
	}
	if len(records) == 0 {
		return stats, nil
	}

	var qualityScores []float64
	defectCounts := map[string]int{}
	for _, r := range records {
		switch r.Status {
		case StatusCompleted:
			stats.Completed++
			if r.QualityScore != nil {
				qualityScores = append(qualityScores, *r.QualityScore)
			}
		case StatusFailed:
			stats.Failed++
		}
		for _, d := range r.DefectsDetected {
			defectCounts[d]++
		}
	}

	stats.SuccessRate = float64(stats.Completed) / float64(len(records)) * 100
	if len(qualityScores) > 0 {
		sum := 0.0
		best := qualityScores[0]
		for _, s := range qualityScores {
			sum += s
			if s > best {
				best = s
			}
		}
		avg := sum / float64(len(qualityScores))
		stats.AverageQualityScore = &avg
		stats.BestQualityScore = &best
	}

	// keep the five most frequent defects
	type defectCount struct {
		name  string
		count int
	}
	counts := make([]defectCount, 0, len(defectCounts))
	for name, count := range defectCounts {
		counts = append(counts, defectCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})
	if len(counts) > 5 {
		counts = counts[:5]
	}
	for _, dc := range counts {
		stats.CommonDefects[dc.name] = dc.count
	}

	stats.LatestIteration = records[0]
	return stats, nil
}
