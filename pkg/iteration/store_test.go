/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package iteration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(filepath.Join(t.TempDir(), "iterations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCreateAndGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	factor := 1.3
	record, err := client.Create(ctx, "tube_squeezer", "/models/tube.stl", CreateOptions{
		ScaleFactor:        &factor,
		OriginalDimensions: map[string]float64{"width": 76.0, "height": 70.0},
		Parameters:         map[string]interface{}{"layer_height": 0.2},
		PresetName:         "tube_squeezer_standard",
	})
	require.NoError(t, err)
	assert.Len(t, record.IterationID, 8)
	assert.Equal(t, StatusPending, record.Status)
	assert.NotNil(t, record.DefectsDetected)

	got, err := client.Get(ctx, record.IterationID)
	require.NoError(t, err)
	assert.Equal(t, "tube_squeezer", got.ModelName)
	assert.Equal(t, "tube_squeezer_standard", got.PresetName)
	require.NotNil(t, got.ScaleFactor)
	assert.Equal(t, 1.3, *got.ScaleFactor)
	assert.Equal(t, 76.0, got.OriginalDimensions["width"])
}

func TestGetNotFound(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Get(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.True(t, commonerrors.IsNotFound(err))
	assert.Equal(t, commonerrors.IterationNotFound, commonerrors.GetErrorCode(err))
}

func TestUpdate(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	record, err := client.Create(ctx, "bracket", "", CreateOptions{})
	require.NoError(t, err)

	record.Status = StatusPrinting
	record.Notes = "started on textured plate"
	require.NoError(t, client.Update(ctx, record))

	got, err := client.Get(ctx, record.IterationID)
	require.NoError(t, err)
	assert.Equal(t, StatusPrinting, got.Status)
	assert.Equal(t, "started on textured plate", got.Notes)

	missing := *record
	missing.IterationID = "deadbeef"
	err = client.Update(ctx, &missing)
	require.Error(t, err)
	assert.True(t, commonerrors.IsNotFound(err))
}

func TestRecordOutcome(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	record, err := client.Create(ctx, "tube_squeezer", "", CreateOptions{})
	require.NoError(t, err)

	updated, err := client.RecordOutcome(ctx, record.IterationID, Outcome{
		Status:           StatusCompleted,
		QualityScore:     floatPtr(88),
		Defects:          []string{"stringing"},
		Notes:            "minor stringing between posts",
		PrintTimeMinutes: intPtr(95),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, 1, updated.DefectCount)
	assert.NotEmpty(t, updated.ImprovementSuggestions)

	got, err := client.Get(ctx, record.IterationID)
	require.NoError(t, err)
	assert.Equal(t, []string{"stringing"}, got.DefectsDetected)
	require.NotNil(t, got.PrintTimeMinutes)
	assert.Equal(t, 95, *got.PrintTimeMinutes)
}

func TestListForModelAndRecent(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.Create(ctx, "tube_squeezer", "", CreateOptions{})
		require.NoError(t, err)
	}
	_, err := client.Create(ctx, "bracket", "", CreateOptions{})
	require.NoError(t, err)

	records, err := client.ListForModel(ctx, "tube_squeezer", 10)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = client.ListForModel(ctx, "tube_squeezer", 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = client.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	records, err = client.ListForModel(ctx, "nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStatistics(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	outcomes := []Outcome{
		{Status: StatusCompleted, QualityScore: floatPtr(90), Defects: []string{"stringing"}},
		{Status: StatusCompleted, QualityScore: floatPtr(95)},
		{Status: StatusFailed, Defects: []string{"warping", "stringing"}},
	}
	for _, outcome := range outcomes {
		record, err := client.Create(ctx, "tube_squeezer", "", CreateOptions{})
		require.NoError(t, err)
		_, err = client.RecordOutcome(ctx, record.IterationID, outcome)
		require.NoError(t, err)
	}

	stats, err := client.Statistics(ctx, "tube_squeezer")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.InDelta(t, 66.7, stats.SuccessRate, 0.1)
	require.NotNil(t, stats.AverageQualityScore)
	assert.InDelta(t, 92.5, *stats.AverageQualityScore, 1e-9)
	require.NotNil(t, stats.BestQualityScore)
	assert.Equal(t, 95.0, *stats.BestQualityScore)
	assert.Equal(t, 2, stats.CommonDefects["stringing"])
	assert.Equal(t, 1, stats.CommonDefects["warping"])
	assert.NotNil(t, stats.LatestIteration)
}

func TestStatisticsEmpty(t *testing.T) {
	client := newTestClient(t)
	stats, err := client.Statistics(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalAttempts)
	assert.Zero(t, stats.SuccessRate)
	assert.Nil(t, stats.LatestIteration)
}

func TestRecordOutcomeIsFinal(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	record, err := client.Create(ctx, "tube_squeezer", "", CreateOptions{})
	require.NoError(t, err)

	first, err := client.RecordOutcome(ctx, record.IterationID, Outcome{
		Status:       StatusCompleted,
		QualityScore: floatPtr(88),
	})
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	// a second outcome must not overwrite the recorded one
	_, err = client.RecordOutcome(ctx, record.IterationID, Outcome{
		Status: StatusFailed,
	})
	require.Error(t, err)
	assert.Equal(t, commonerrors.IterationFinalized, commonerrors.GetErrorCode(err))

	got, err := client.Get(ctx, record.IterationID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.QualityScore)
	assert.Equal(t, 88.0, *got.QualityScore)
}
