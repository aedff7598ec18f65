/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package wizard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
)

func waitingCheckpoints(w *Workflow) int {
	count := 0
	state := w.State()
	for _, cp := range state.Checkpoints {
		if cp.Status == CheckpointWaitingInput {
			count++
		}
	}
	return count
}

func TestStartWorkflow(t *testing.T) {
	w := StartWorkflow("heavy duty tube squeezer for a 26mm tube")

	assert.Len(t, w.ID(), 8)
	state := w.State()
	assert.Equal(t, StageRequirements, state.CurrentStage)
	require.NotNil(t, state.ParsedRequirements)
	assert.Equal(t, StrengthHeavy, state.ParsedRequirements.Strength)

	cp := w.CurrentCheckpoint()
	require.NotNil(t, cp)
	assert.Equal(t, StageRequirements, cp.Stage)
	assert.Equal(t, CheckpointWaitingInput, cp.Status)
	assert.GreaterOrEqual(t, len(cp.Questions), 3)
}

func TestStartWorkflowEmptyDescription(t *testing.T) {
	w := StartWorkflow("")
	assert.Nil(t, w.CurrentCheckpoint())
	assert.Equal(t, StageRequirements, w.State().CurrentStage)
}

func TestWorkflowFullRun(t *testing.T) {
	w := StartWorkflow("a simple stand")

	// requirements -> design review
	cp, err := w.Approve(map[string]interface{}{
		"strength_level": "medium",
		"fit_type":       "snug",
	})
	require.NoError(t, err)
	assert.Equal(t, StageDesignReview, cp.Stage)
	assert.True(t, cp.AutoApprovable)
	assert.Equal(t, 1, waitingCheckpoints(w))

	state := w.State()
	assert.Equal(t, 2.0, state.DesignParams["wall_thickness_mm"])
	assert.Equal(t, 0.3, state.DesignParams["clearance_mm"])

	// design review -> material
	cp, err = w.Approve(nil)
	require.NoError(t, err)
	assert.Equal(t, StageMaterialSelect, cp.Stage)
	require.Len(t, cp.Questions, 1)
	assert.Len(t, cp.Questions[0].Options, 5)

	// material -> nozzle
	cp, err = w.Approve(map[string]interface{}{"material": "bambu_petg"})
	require.NoError(t, err)
	assert.Equal(t, StageNozzleSelect, cp.Stage)
	assert.Equal(t, "bambu_petg", w.State().Material)
	require.Len(t, cp.Questions, 1)
	assert.Len(t, cp.Questions[0].Options, 4)

	// nozzle -> slicing
	cp, err = w.Approve(map[string]interface{}{"nozzle": 0.6})
	require.NoError(t, err)
	assert.Equal(t, StageSlicingReview, cp.Stage)
	assert.Equal(t, 0.6, w.State().NozzleDiameter)
	require.Len(t, cp.Questions, 2)

	// slicing -> final review
	cp, err = w.Approve(map[string]interface{}{
		"quality":  "standard",
		"use_case": "functional",
	})
	require.NoError(t, err)
	assert.Equal(t, StageFinalReview, cp.Stage)

	state = w.State()
	assert.Equal(t, 4, state.SlicingParams["wall_loops"])
	assert.Equal(t, 25, state.SlicingParams["sparse_infill_density"])
	assert.Equal(t, "gyroid", state.SlicingParams["sparse_infill_pattern"])
	// PETG gets z-hop enabled during optimization
	assert.Equal(t, true, state.SlicingParams["z_hop_enabled"])

	// final review -> ready
	_, err = w.Approve(map[string]interface{}{"confirm": "yes"})
	require.NoError(t, err)

	state = w.State()
	assert.Equal(t, StageReady, state.CurrentStage)
	assert.True(t, state.IsComplete)
	assert.Nil(t, w.CurrentCheckpoint())

	// a finished workflow cannot be approved again
	_, err = w.Approve(nil)
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))
}

func TestWorkflowBlockedOnCriticalIssues(t *testing.T) {
	w := StartWorkflow("heavy duty tube squeezer for a 26mm tube")

	// tight fit maps to 0.15mm clearance, which fails the design review
	cp, err := w.Approve(map[string]interface{}{
		"strength_level": "heavy",
		"fit_type":       "tight",
	})
	require.NoError(t, err)
	assert.Equal(t, StageDesignReview, cp.Stage)
	assert.False(t, cp.AutoApprovable)
	assert.NotEmpty(t, cp.Warnings)

	_, err = w.Approve(nil)
	require.Error(t, err)
	assert.Equal(t, commonerrors.CheckpointBlocked, commonerrors.GetErrorCode(err))

	// still parked on the design review
	current := w.CurrentCheckpoint()
	require.NotNil(t, current)
	assert.Equal(t, StageDesignReview, current.Stage)

	// explicit override advances anyway
	cp, err = w.Approve(map[string]interface{}{"override_critical": true})
	require.NoError(t, err)
	assert.Equal(t, StageMaterialSelect, cp.Stage)
}

func TestWorkflowMarkPrintingAndComplete(t *testing.T) {
	w := StartWorkflow("a simple stand")
	w.MarkPrinting("/tmp/stand.gcode")

	state := w.State()
	assert.Equal(t, StagePrinting, state.CurrentStage)
	assert.Equal(t, "/tmp/stand.gcode", state.GcodePath)

	w.MarkComplete()
	assert.Equal(t, StageComplete, w.State().CurrentStage)
}

func TestWorkflowStateSummary(t *testing.T) {
	w := StartWorkflow("a simple stand")
	summary := w.StateSummary()
	assert.Equal(t, 1, summary.StageNumber)
	assert.Equal(t, 9, summary.TotalStages)
	assert.NotNil(t, summary.CurrentCheckpoint)
	assert.Equal(t, "Bambu Basic PLA", summary.Parameters["material"])
}

func TestWorkflowRestoreRoundTrip(t *testing.T) {
	w := StartWorkflow("a simple stand")
	_, err := w.Approve(map[string]interface{}{
		"strength_level": "medium",
		"fit_type":       "snug",
	})
	require.NoError(t, err)
	_, err = w.Approve(nil)
	require.NoError(t, err)

	state := w.State()
	data, err := json.Marshal(&state)
	require.NoError(t, err)

	m := NewManager()
	restored, err := m.Restore(data)
	require.NoError(t, err)
	assert.Equal(t, w.ID(), restored.ID())
	assert.Equal(t, StageMaterialSelect, restored.State().CurrentStage)
	require.NotNil(t, restored.CurrentCheckpoint())
	assert.Equal(t, StageMaterialSelect, restored.CurrentCheckpoint().Stage)

	// the restored workflow keeps advancing where the original left off
	cp, err := restored.Approve(map[string]interface{}{"material": "bambu_petg"})
	require.NoError(t, err)
	assert.Equal(t, StageNozzleSelect, cp.Stage)
	assert.Equal(t, "bambu_petg", restored.State().Material)

	got, err := m.Get(w.ID())
	require.NoError(t, err)
	assert.Equal(t, restored, got)
}

func TestWorkflowRestoreRejectsInvalidState(t *testing.T) {
	m := NewManager()

	_, err := m.Restore([]byte(`{"bogus": true}`))
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	_, err = NewWorkflowFromState(nil)
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	_, err = NewWorkflowFromState(&State{WorkflowID: "ab12cd34", CurrentStage: "warp_speed"})
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	_, err = NewWorkflowFromState(&State{
		WorkflowID:   "ab12cd34",
		CurrentStage: StageDesignReview,
		Checkpoints: []*Checkpoint{
			{Stage: StageRequirements, Status: CheckpointWaitingInput},
			{Stage: StageDesignReview, Status: CheckpointWaitingInput},
		},
	})
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))
}

func TestManager(t *testing.T) {
	m := NewManager()

	w := m.Create("a simple stand")
	got, err := m.Get(w.ID())
	require.NoError(t, err)
	assert.Equal(t, w, got)

	_, err = m.Get("deadbeef")
	require.Error(t, err)
	assert.Equal(t, commonerrors.WorkflowNotFound, commonerrors.GetErrorCode(err))

	m.Create("another stand")
	assert.Len(t, m.List(), 2)

	require.NoError(t, m.Delete(w.ID()))
	assert.Len(t, m.List(), 1)

	err = m.Delete(w.ID())
	require.Error(t, err)
	assert.True(t, commonerrors.IsNotFound(err))
}
