// Package render assembles and posts render jobs to the Playbook
// processing endpoints.
//
// A job is a multipart request: a structured parameter set (workflow id,
// fixed 768x768 dimensions, clamped strengths, mask prompts) plus the
// named pass images the dispatched pipeline needs. Retexture and style
// transfer are mutually exclusive shapes selected by the workflow
// category of the id, never the raw composite value.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/config"
	"github.com/playbook3d/render-bridge/internal/workflow"
)

const (
	retexturePath     = "/generative-retexture"
	styleTransferPath = "/style-transfer"

	// The backend renders at a fixed canvas size regardless of the host
	// viewport; passes are expected at the same dimensions.
	renderWidth  = 768
	renderHeight = 768
)

// Pass names used as multipart file part names.
const (
	PassMask          = "mask"
	PassDepth         = "depth"
	PassOutline       = "outline"
	PassBeauty        = "beauty"
	PassStyleTransfer = "style_transfer_image"
)

// retexturePasses and styleTransferPasses are the file parts each
// pipeline requires, in form order.
var (
	retexturePasses     = []string{PassMask, PassDepth, PassOutline}
	styleTransferPasses = []string{PassBeauty, PassDepth, PassOutline, PassStyleTransfer}
)

// Job is a fully resolved render request: encoded workflow id, prompts,
// raw 0-100 slider values, and the pass images.
type Job struct {
	WorkflowID  workflow.ID
	ScenePrompt string

	// StructureStrength drives the retexture depth/outline params.
	StructureStrength float64
	// StyleStrength drives the style-transfer depth/outline/strength params.
	StyleStrength float64

	// MaskPrompts are the 7 positional mask prompts; placeholder text is
	// already substituted away by workflow.PadMaskPrompts.
	MaskPrompts [workflow.NumMasks]string

	// Passes holds the raw image bytes keyed by pass name.
	Passes map[string][]byte
}

// Handle identifies a submitted job for log correlation and result
// retrieval.
type Handle struct {
	RunID       string
	SubmittedAt time.Time
	Response    []byte
}

// Submitter posts render jobs to the processing endpoints.
type Submitter struct {
	httpClient *http.Client
	baseURL    string
}

// NewSubmitter creates a job submitter.
func NewSubmitter(cfg *config.Config) *Submitter {
	return &Submitter{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    cfg.BaseURL,
	}
}

// Submit dispatches the job to the pipeline its workflow id belongs to
// and posts the multipart request.
func (s *Submitter) Submit(ctx context.Context, job *Job) (*Handle, error) {
	category, err := workflow.CategoryOf(job.WorkflowID)
	if err != nil {
		return nil, &Error{Kind: KindUnsupportedWorkflow, Message: "job has no submittable pipeline", Err: err}
	}

	var path string
	var body *bytes.Buffer
	var contentType string
	switch category {
	case workflow.Retexture:
		path = retexturePath
		body, contentType, err = s.retextureBody(job)
	case workflow.StyleTransfer:
		path = styleTransferPath
		body, contentType, err = s.styleTransferBody(job)
	}
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log.Info().
		Str("runId", runID).
		Int("workflowId", int(job.WorkflowID)).
		Str("pipeline", category.String()).
		Msg("Submitting render job")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindSubmitFailed, Message: "submit request failed", Err: err}
	}
	defer resp.Body.Close()
	log.Debug().Str("runId", runID).Int("statusCode", resp.StatusCode).Dur("duration", time.Since(start)).Msg("Submit response")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read submit response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindSubmitFailed, Status: resp.StatusCode, Message: "submit rejected"}
	}

	return &Handle{RunID: runID, SubmittedAt: start, Response: respBody}, nil
}

// retextureBody builds the generative-retexture multipart body.
func (s *Submitter) retextureBody(job *Job) (*bytes.Buffer, string, error) {
	if err := requirePasses(job, retexturePasses); err != nil {
		return nil, "", err
	}
	params := workflow.DeriveStructure(job.StructureStrength)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := [][2]string{
		{"is_blender_plugin", "1"},
		{"workflow_id", strconv.Itoa(int(job.WorkflowID))},
		{"width", strconv.Itoa(renderWidth)},
		{"height", strconv.Itoa(renderHeight)},
		{"scene_prompt", job.ScenePrompt},
		{"structure_strength_depth", formatFloat(params.Depth)},
		{"structure_strength_outline", formatFloat(params.Outline)},
	}
	for i, prompt := range job.MaskPrompts {
		// Prompts normally arrive padded, but a directly built Job may
		// still carry the UI hint text; the backend must never see it.
		if prompt == workflow.MaskPromptPlaceholder {
			prompt = ""
		}
		fields = append(fields, [2]string{fmt.Sprintf("mask_prompt_%d", i+1), prompt})
	}
	if err := writeBody(w, fields, job, retexturePasses); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// styleTransferBody builds the style-transfer multipart body.
func (s *Submitter) styleTransferBody(job *Job) (*bytes.Buffer, string, error) {
	if err := requirePasses(job, styleTransferPasses); err != nil {
		return nil, "", err
	}
	params := workflow.DeriveStyleTransfer(job.StyleStrength)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := [][2]string{
		{"is_blender_plugin", "1"},
		{"workflow_id", strconv.Itoa(int(job.WorkflowID))},
		{"width", strconv.Itoa(renderWidth)},
		{"height", strconv.Itoa(renderHeight)},
		{"style_transfer_strength", formatFloat(params.Strength)},
		{"structure_strength_depth", formatFloat(params.Depth)},
		{"structure_strength_outline", formatFloat(params.Outline)},
		{"scene_prompt", job.ScenePrompt},
	}
	if err := writeBody(w, fields, job, styleTransferPasses); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// requirePasses checks that every pass the pipeline needs is present and
// non-empty.
func requirePasses(job *Job, names []string) error {
	for _, name := range names {
		if len(job.Passes[name]) == 0 {
			return &Error{Kind: KindMissingPass, Message: fmt.Sprintf("pipeline requires the %s pass", name)}
		}
	}
	return nil
}

// writeBody writes the form fields and pass file parts.
func writeBody(w *multipart.Writer, fields [][2]string, job *Job, passes []string) error {
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	for _, name := range passes {
		part, err := w.CreateFormFile(name, name+".png")
		if err != nil {
			return fmt.Errorf("create file part %s: %w", name, err)
		}
		if _, err := part.Write(job.Passes[name]); err != nil {
			return fmt.Errorf("write file part %s: %w", name, err)
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
