/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package wizard

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/materials"
	"github.com/hunter-stradley/vibe-print/pkg/optimizer"
	"github.com/hunter-stradley/vibe-print/pkg/utils/jsonutil"
)

// WorkflowStage is a stage of the guided workflow.
type WorkflowStage string

const (
	StageRequirements   WorkflowStage = "requirements"
	StageDesignReview   WorkflowStage = "design_review"
	StageMaterialSelect WorkflowStage = "material"
	StageNozzleSelect   WorkflowStage = "nozzle"
	StageSlicingReview  WorkflowStage = "slicing"
	StageFinalReview    WorkflowStage = "final"
	StageReady          WorkflowStage = "ready"
	StagePrinting       WorkflowStage = "printing"
	StageComplete       WorkflowStage = "complete"
)

// stageOrder fixes the sequence for stage numbering.
var stageOrder = []WorkflowStage{
	StageRequirements, StageDesignReview, StageMaterialSelect,
	StageNozzleSelect, StageSlicingReview, StageFinalReview,
	StageReady, StagePrinting, StageComplete,
}

// CheckpointStatus is the status of a workflow checkpoint.
type CheckpointStatus string

const (
	CheckpointPending      CheckpointStatus = "pending"
	CheckpointWaitingInput CheckpointStatus = "waiting_input"
	CheckpointApproved     CheckpointStatus = "approved"
	CheckpointSkipped      CheckpointStatus = "skipped"
	CheckpointFailed       CheckpointStatus = "failed"
)

// QuestionOption is one selectable answer for a checkpoint question.
type QuestionOption struct {
	Value       interface{} `json:"value"`
	Label       string      `json:"label"`
	Description string      `json:"description,omitempty"`
}

// Question is something the workflow asks the user at a checkpoint.
type Question struct {
	ID           string           `json:"id"`
	Prompt       string           `json:"question"`
	Type         string           `json:"type"` // confirm | select | text
	Options      []QuestionOption `json:"options,omitempty"`
	CurrentValue interface{}      `json:"current_value,omitempty"`
	Editable     bool             `json:"editable,omitempty"`
}

// Checkpoint is a workflow step requiring user input or confirmation.
type Checkpoint struct {
	Stage          WorkflowStage          `json:"stage"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Status         CheckpointStatus       `json:"status"`
	Questions      []Question             `json:"questions"`
	Answers        map[string]interface{} `json:"answers"`
	Suggestions    []interface{}          `json:"suggestions"`
	Warnings       []string               `json:"warnings"`
	AutoApprovable bool                   `json:"auto_approvable"`
	Timestamp      time.Time              `json:"timestamp"`
}

// State is the full serializable state of one guided workflow.
type State struct {
	WorkflowID   string        `json:"workflow_id"`
	CreatedAt    time.Time     `json:"created_at"`
	CurrentStage WorkflowStage `json:"current_stage"`
	Checkpoints  []*Checkpoint `json:"checkpoints"`

	UserDescription    string                 `json:"user_description"`
	ParsedRequirements *ParsedIntent          `json:"parsed_requirements,omitempty"`
	DesignParams       map[string]interface{} `json:"design_params"`
	Material           string                 `json:"material"`
	NozzleDiameter     float64                `json:"nozzle_diameter"`
	SlicingParams      map[string]interface{} `json:"slicing_params"`

	ModelPath string `json:"model_path,omitempty"`
	GcodePath string `json:"gcode_path,omitempty"`

	IsComplete bool   `json:"is_complete"`
	Error      string `json:"error,omitempty"`
}

// Workflow walks a novice user from a plain-language description to a
// print-ready parameter set, one checkpoint at a time.
type Workflow struct {
	mu    sync.Mutex
	state *State
}

// StartWorkflow creates a workflow. A non-empty description is parsed
// immediately and the first checkpoint is opened.
func StartWorkflow(description string) *Workflow {
	w := &Workflow{
		state: &State{
			WorkflowID:      uuid.New().String()[:8],
			CreatedAt:       time.Now(),
			CurrentStage:    StageRequirements,
			Checkpoints:     []*Checkpoint{},
			UserDescription: description,
			DesignParams:    map[string]interface{}{},
			Material:        "Bambu Basic PLA",
			NozzleDiameter:  0.4,
			SlicingParams:   map[string]interface{}{},
		},
	}
	if description != "" {
		w.processRequirements(description)
	}
	return w
}

// NewWorkflowFromState rebuilds a live workflow from persisted state,
// validating the stage and checkpoint statuses before accepting it.
func NewWorkflowFromState(state *State) (*Workflow, error) {
	if state == nil || state.WorkflowID == "" {
		return nil, commonerrors.NewBadRequest("workflow state is missing an id")
	}
	known := false
	for _, s := range stageOrder {
		if s == state.CurrentStage {
			known = true
			break
		}
	}
	if !known {
		return nil, commonerrors.NewBadRequest(
			fmt.Sprintf("unknown workflow stage %q", state.CurrentStage))
	}
	waiting := 0
	for _, cp := range state.Checkpoints {
		switch cp.Status {
		case CheckpointPending, CheckpointWaitingInput, CheckpointApproved,
			CheckpointSkipped, CheckpointFailed:
		default:
			return nil, commonerrors.NewBadRequest(
				fmt.Sprintf("unknown checkpoint status %q", cp.Status))
		}
		if cp.Status == CheckpointWaitingInput {
			waiting++
		}
	}
	if waiting > 1 {
		return nil, commonerrors.NewBadRequest(
			fmt.Sprintf("%d checkpoints await input, expected at most one", waiting))
	}
	if state.DesignParams == nil {
		state.DesignParams = map[string]interface{}{}
	}
	if state.SlicingParams == nil {
		state.SlicingParams = map[string]interface{}{}
	}
	return &Workflow{state: state}, nil
}

// State returns a copy of the workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.state
}

// ID returns the workflow identifier.
func (w *Workflow) ID() string {
	return w.state.WorkflowID
}

func (w *Workflow) processRequirements(description string) {
	parsed := ParseDescription(description)
	w.state.ParsedRequirements = parsed

	cp := &Checkpoint{
		Stage:       StageRequirements,
		Title:       "Understanding Your Requirements",
		Description: "I've analyzed your description. Please confirm or adjust:",
		Status:      CheckpointWaitingInput,
		Answers:     map[string]interface{}{},
		Timestamp:   time.Now(),
	}

	cp.Questions = append(cp.Questions, Question{
		ID:           "confirm_dimensions",
		Prompt:       "Are these dimensions correct?",
		Type:         "confirm",
		CurrentValue: parsed.Dimensions,
		Editable:     true,
	})
	cp.Questions = append(cp.Questions, Question{
		ID:     "strength_level",
		Prompt: "How strong does it need to be?",
		Type:   "select",
		Options: []QuestionOption{
			{Value: "light", Label: "Light duty (decorative)"},
			{Value: "medium", Label: "Normal use (Recommended)"},
			{Value: "heavy", Label: "Heavy duty (lots of force)"},
		},
		CurrentValue: string(parsed.Strength),
	})
	cp.Questions = append(cp.Questions, Question{
		ID:     "fit_type",
		Prompt: "How should parts fit together?",
		Type:   "select",
		Options: []QuestionOption{
			{Value: "tight", Label: "Tight (stays put firmly)"},
			{Value: "snug", Label: "Snug (Recommended - adjustable)"},
			{Value: "loose", Label: "Loose (easy to move)"},
		},
		CurrentValue: string(parsed.FitType),
	})
	for _, q := range parsed.ClarifyingQuestions {
		cp.Questions = append(cp.Questions, Question{
			ID:     fmt.Sprintf("clarify_%d", len(cp.Questions)),
			Prompt: q,
			Type:   "text",
		})
	}

	w.state.Checkpoints = append(w.state.Checkpoints, cp)
}

func (w *Workflow) advanceToDesignReview(answers map[string]interface{}) *Checkpoint {
	w.applyAnswers(answers)
	w.state.CurrentStage = StageDesignReview

	req := w.state.ParsedRequirements
	params := map[string]interface{}{
		"wall_thickness_mm": 2.0,
		"clearance_mm":      0.3,
	}
	if req != nil {
		params["wall_thickness_mm"] = req.WallThicknessMM
		params["clearance_mm"] = req.ClearanceMM
		params["needs_grip"] = req.NeedsGrip
		if primary, ok := req.Dimensions["primary"]; ok {
			params["tube_diameter"] = primary
		}
	}
	// answers from the previous checkpoint override the parsed defaults
	for k, v := range w.state.DesignParams {
		params[k] = v
	}
	w.state.DesignParams = params

	review := ReviewDesign(params, w.state.UserDescription, w.state.Material, w.state.NozzleDiameter)

	cp := &Checkpoint{
		Stage:          StageDesignReview,
		Title:          "Design Review",
		Description:    "Let's review your design parameters:",
		Status:         CheckpointWaitingInput,
		Answers:        map[string]interface{}{},
		AutoApprovable: review.CriticalIssues == 0,
		Timestamp:      time.Now(),
	}
	for _, s := range review.Suggestions {
		cp.Suggestions = append(cp.Suggestions, s)
		if s.Priority == PriorityCritical {
			cp.Warnings = append(cp.Warnings, s.Title)
		}
	}

	w.state.Checkpoints = append(w.state.Checkpoints, cp)
	return cp
}

func (w *Workflow) advanceToMaterialSelect(answers map[string]interface{}) *Checkpoint {
	w.applyAnswers(answers)
	w.state.CurrentStage = StageMaterialSelect

	var options []QuestionOption
	for _, summary := range materials.ListFilamentProfiles() {
		profile := materials.GetFilamentProfile(summary.Name)
		if profile == nil {
			continue
		}
		options = append(options, QuestionOption{
			Value: summary.Name,
			Label: profile.Name,
			Description: fmt.Sprintf("%s - Nozzle: %d°C, Bed: %d°C",
				profile.MaterialType, profile.NozzleTemp.Optimal, profile.BedTemp.Optimal),
		})
	}

	cp := &Checkpoint{
		Stage:       StageMaterialSelect,
		Title:       "Material Selection",
		Description: "Choose your filament material:",
		Status:      CheckpointWaitingInput,
		Answers:     map[string]interface{}{},
		Questions: []Question{{
			ID:           "material",
			Prompt:       "Which filament will you use?",
			Type:         "select",
			Options:      options,
			CurrentValue: w.state.Material,
		}},
		Timestamp: time.Now(),
	}

	if req := w.state.ParsedRequirements; req != nil {
		if req.NeedsFlex {
			cp.Warnings = append(cp.Warnings, "Your design needs flexibility - TPU is recommended")
		}
		if req.Waterproof {
			cp.Warnings = append(cp.Warnings, "For waterproof parts, PETG works better than PLA")
		}
		if req.HeatResistant {
			cp.Warnings = append(cp.Warnings, "For heat resistance, use PC or PETG (not PLA)")
		}
	}

	w.state.Checkpoints = append(w.state.Checkpoints, cp)
	return cp
}

// nozzleChoices is the stock lineup offered at the nozzle checkpoint.
var nozzleChoices = []struct {
	diameter float64
	hardened bool
}{
	{0.2, false}, {0.4, false}, {0.6, true}, {0.8, true},
}

func (w *Workflow) advanceToNozzleSelect(answers map[string]interface{}) *Checkpoint {
	if material, ok := answers["material"].(string); ok && material != "" {
		w.state.Material = material
	}
	w.applyAnswers(answers)
	w.state.CurrentStage = StageNozzleSelect

	sizeCategory := "medium"
	if req := w.state.ParsedRequirements; req != nil && req.SizeCategory != "" {
		sizeCategory = string(req.SizeCategory)
	}
	abrasive := false
	if profile := materials.GetFilamentProfile(w.state.Material); profile != nil {
		abrasive = profile.IsAbrasive()
	}
	recommended, reason := materials.RecommendNozzle(sizeCategory, "standard", abrasive, false)

	var options []QuestionOption
	for _, choice := range nozzleChoices {
		profile := materials.GetNozzleProfile(choice.diameter, choice.hardened)
		if profile == nil {
			continue
		}
		label := fmt.Sprintf("%gmm - %s", profile.Diameter, profile.NozzleType)
		if profile.Diameter == recommended.Diameter {
			label += " (Recommended)"
		}
		desc := ""
		if len(profile.BestFor) > 0 {
			desc = profile.BestFor[0]
			if len(profile.BestFor) > 1 {
				desc += ", " + profile.BestFor[1]
			}
		}
		options = append(options, QuestionOption{
			Value:       profile.Diameter,
			Label:       label,
			Description: desc,
		})
	}

	cp := &Checkpoint{
		Stage:       StageNozzleSelect,
		Title:       "Nozzle Selection",
		Description: fmt.Sprintf("Recommendation: %s", reason),
		Status:      CheckpointWaitingInput,
		Answers:     map[string]interface{}{},
		Questions: []Question{{
			ID:           "nozzle",
			Prompt:       "Which nozzle size will you use?",
			Type:         "select",
			Options:      options,
			CurrentValue: recommended.Diameter,
		}},
		AutoApprovable: true,
		Timestamp:      time.Now(),
	}

	w.state.Checkpoints = append(w.state.Checkpoints, cp)
	return cp
}

func (w *Workflow) advanceToSlicingReview(answers map[string]interface{}) *Checkpoint {
	if nozzle, ok := answerFloat(answers, "nozzle"); ok && nozzle > 0 {
		w.state.NozzleDiameter = nozzle
	}
	w.applyAnswers(answers)
	w.state.CurrentStage = StageSlicingReview

	var qualityOptions []QuestionOption
	for _, preset := range []QualityPreset{QualityDraft, QualityStandard, QualityQuality, QualityUltra} {
		settings := qualityTable[preset]
		label := string(preset)
		if preset == QualityStandard {
			label += " (Recommended)"
		}
		qualityOptions = append(qualityOptions, QuestionOption{
			Value:       string(preset),
			Label:       label,
			Description: settings.description,
		})
	}

	cp := &Checkpoint{
		Stage:       StageSlicingReview,
		Title:       "Print Quality Settings",
		Description: "How should we slice your model?",
		Status:      CheckpointWaitingInput,
		Answers:     map[string]interface{}{},
		Questions: []Question{
			{
				ID:           "quality",
				Prompt:       "What quality level do you want?",
				Type:         "select",
				Options:      qualityOptions,
				CurrentValue: string(QualityStandard),
			},
			{
				ID:     "use_case",
				Prompt: "What is the print for?",
				Type:   "select",
				Options: []QuestionOption{
					{Value: "functional", Label: "Functional part (needs strength)"},
					{Value: "decorative", Label: "Decorative (looks matter most)"},
					{Value: "prototype", Label: "Prototype (quick test)"},
					{Value: "gift", Label: "Gift (balanced)"},
				},
				CurrentValue: "functional",
			},
		},
		Timestamp: time.Now(),
	}

	if profile := materials.GetFilamentProfile(w.state.Material); profile != nil {
		if !profile.AMSCompatible {
			cp.Warnings = append(cp.Warnings,
				fmt.Sprintf("%s must be fed directly (not via AMS)", profile.Name))
		}
		if len(profile.Notes) > 0 {
			cp.Warnings = append(cp.Warnings, profile.Notes[0])
		}
	}

	w.state.Checkpoints = append(w.state.Checkpoints, cp)
	return cp
}

func (w *Workflow) advanceToFinalReview(answers map[string]interface{}) *Checkpoint {
	w.applyAnswers(answers)
	w.state.CurrentStage = StageFinalReview

	quality := QualityStandard
	if q, ok := answers["quality"].(string); ok && q != "" {
		quality = QualityPreset(q)
	}
	useCase := UseFunctional
	if u, ok := answers["use_case"].(string); ok && u != "" {
		useCase = PrintUseCase(u)
	}

	w.state.SlicingParams = RecommendedSettings(w.state.Material, w.state.NozzleDiameter, quality, useCase)

	optimization := optimizer.Optimize(w.state.SlicingParams, w.state.Material, w.state.NozzleDiameter, 25)
	w.state.SlicingParams = optimization.Optimized

	cp := &Checkpoint{
		Stage:       StageFinalReview,
		Title:       "Ready to Generate",
		Description: "Review your settings before we create the model:",
		Status:      CheckpointWaitingInput,
		Answers:     map[string]interface{}{},
		Suggestions: []interface{}{map[string]interface{}{
			"type":     "summary",
			"design":   w.state.DesignParams,
			"material": w.state.Material,
			"nozzle":   fmt.Sprintf("%gmm", w.state.NozzleDiameter),
			"quality":  string(quality),
			"slicing": map[string]interface{}{
				"layer_height": fmt.Sprintf("%vmm", w.state.SlicingParams["layer_height"]),
				"infill":       fmt.Sprintf("%v%%", w.state.SlicingParams["sparse_infill_density"]),
				"walls":        w.state.SlicingParams["wall_loops"],
			},
		}},
		Warnings: optimization.Warnings,
		Questions: []Question{{
			ID:     "confirm",
			Prompt: "Ready to generate your model?",
			Type:   "confirm",
			Options: []QuestionOption{
				{Value: "yes", Label: "Yes, generate model"},
				{Value: "no", Label: "No, go back and adjust"},
			},
		}},
		Timestamp: time.Now(),
	}

	w.state.Checkpoints = append(w.state.Checkpoints, cp)
	return cp
}

// CurrentCheckpoint returns the checkpoint awaiting input, or nil.
func (w *Workflow) CurrentCheckpoint() *Checkpoint {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentCheckpointLocked()
}

func (w *Workflow) currentCheckpointLocked() *Checkpoint {
	for i := len(w.state.Checkpoints) - 1; i >= 0; i-- {
		if w.state.Checkpoints[i].Status == CheckpointWaitingInput {
			return w.state.Checkpoints[i]
		}
	}
	return nil
}

// Approve approves the current checkpoint with the given answers and
// advances to the next stage, returning the new checkpoint.
func (w *Workflow) Approve(answers map[string]interface{}) (*Checkpoint, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if answers == nil {
		answers = map[string]interface{}{}
	}
	current := w.currentCheckpointLocked()
	if current != nil {
		// critical findings block advance unless explicitly overridden
		if len(current.Warnings) > 0 && !current.AutoApprovable && current.Stage == StageDesignReview {
			if override, _ := answers["override_critical"].(bool); !override {
				return nil, commonerrors.NewCheckpointBlocked(fmt.Sprintf(
					"checkpoint %q has %d critical issue(s); resolve them or set override_critical",
					current.Title, len(current.Warnings)))
			}
		}
		current.Status = CheckpointApproved
		current.Answers = answers
	}

	switch w.state.CurrentStage {
	case StageRequirements:
		return w.advanceToDesignReview(answers), nil
	case StageDesignReview:
		return w.advanceToMaterialSelect(answers), nil
	case StageMaterialSelect:
		return w.advanceToNozzleSelect(answers), nil
	case StageNozzleSelect:
		return w.advanceToSlicingReview(answers), nil
	case StageSlicingReview:
		return w.advanceToFinalReview(answers), nil
	case StageFinalReview:
		w.state.CurrentStage = StageReady
		w.state.IsComplete = true
		klog.V(2).Infof("workflow %s complete, slicing params ready", w.state.WorkflowID)
		return current, nil
	default:
		return nil, commonerrors.NewBadRequest(
			fmt.Sprintf("workflow is already %s", w.state.CurrentStage))
	}
}

// MarkPrinting records that the prepared job has been sent to the printer.
func (w *Workflow) MarkPrinting(gcodePath string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.GcodePath = gcodePath
	w.state.CurrentStage = StagePrinting
}

// MarkComplete records that the print finished.
func (w *Workflow) MarkComplete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.CurrentStage = StageComplete
}

// fit type to clearance in mm
var fitClearance = map[string]float64{
	"tight":   0.15,
	"snug":    0.3,
	"loose":   1.0,
	"press":   0.0,
	"sliding": 0.5,
}

// strength level to wall thickness in mm
var strengthWalls = map[string]float64{
	"light":   1.5,
	"medium":  2.0,
	"heavy":   3.0,
	"extreme": 4.0,
}

func (w *Workflow) applyAnswers(answers map[string]interface{}) {
	if v, ok := answerFloat(answers, "wall_thickness_mm"); ok {
		w.state.DesignParams["wall_thickness_mm"] = v
	}
	if v, ok := answerFloat(answers, "clearance_mm"); ok {
		w.state.DesignParams["clearance_mm"] = v
	}
	if fit, ok := answers["fit_type"].(string); ok {
		clearance, found := fitClearance[fit]
		if !found {
			clearance = 0.3
		}
		w.state.DesignParams["clearance_mm"] = clearance
	}
	if strength, ok := answers["strength_level"].(string); ok {
		wall, found := strengthWalls[strength]
		if !found {
			wall = 2.0
		}
		w.state.DesignParams["wall_thickness_mm"] = wall
	}
}

func answerFloat(answers map[string]interface{}, key string) (float64, bool) {
	switch v := answers[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Summary is a compact view of a workflow's progress.
type Summary struct {
	WorkflowID        string                 `json:"workflow_id"`
	Stage             WorkflowStage          `json:"stage"`
	StageNumber       int                    `json:"stage_number"`
	TotalStages       int                    `json:"total_stages"`
	IsComplete        bool                   `json:"is_complete"`
	CurrentCheckpoint *Checkpoint            `json:"current_checkpoint,omitempty"`
	Parameters        map[string]interface{} `json:"parameters"`
}

// StateSummary builds the progress summary for the workflow.
func (w *Workflow) StateSummary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	stageNumber := 1
	for i, s := range stageOrder {
		if s == w.state.CurrentStage {
			stageNumber = i + 1
			break
		}
	}
	return Summary{
		WorkflowID:        w.state.WorkflowID,
		Stage:             w.state.CurrentStage,
		StageNumber:       stageNumber,
		TotalStages:       len(stageOrder),
		IsComplete:        w.state.IsComplete,
		CurrentCheckpoint: w.currentCheckpointLocked(),
		Parameters: map[string]interface{}{
			"design":   w.state.DesignParams,
			"material": w.state.Material,
			"nozzle":   w.state.NozzleDiameter,
			"slicing":  w.state.SlicingParams,
		},
	}
}

// Manager keeps active workflows by id.
type Manager struct {
	mu        sync.RWMutex
	workflows map[string]*Workflow
}

func NewManager() *Manager {
	return &Manager{workflows: map[string]*Workflow{}}
}

// Create starts a workflow and registers it.
func (m *Manager) Create(description string) *Workflow {
	w := StartWorkflow(description)
	m.mu.Lock()
	m.workflows[w.ID()] = w
	m.mu.Unlock()
	klog.Infof("started guided workflow %s", w.ID())
	return w
}

// Restore rebuilds a workflow from serialized state and registers it,
// replacing any registered workflow with the same id.
func (m *Manager) Restore(data []byte) (*Workflow, error) {
	var state State
	if err := jsonutil.UnmarshalWithCheck(data, &state); err != nil {
		return nil, commonerrors.NewBadRequest(
			fmt.Sprintf("invalid workflow state: %v", err))
	}
	w, err := NewWorkflowFromState(&state)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.workflows[w.ID()] = w
	m.mu.Unlock()
	klog.Infof("restored guided workflow %s at stage %s", w.ID(), state.CurrentStage)
	return w, nil
}

// Get returns a workflow by id.
func (m *Manager) Get(id string) (*Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workflows[id]
	if !ok {
		return nil, commonerrors.NewNotFound("workflow", id)
	}
	return w, nil
}

// List returns summaries of all active workflows.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summaries := make([]Summary, 0, len(m.workflows))
	for _, w := range m.workflows {
		summaries = append(summaries, w.StateSummary())
	}
	return summaries
}

// Delete removes a workflow.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workflows[id]; !ok {
		return commonerrors.NewNotFound("workflow", id)
	}
	delete(m.workflows, id)
	return nil
}
