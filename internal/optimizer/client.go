/**
 * Copyright 2025-present Jobpilot, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"jobpilot-go/internal/models"

	"go.uber.org/zap"
)

// OptimizationInput is what the external optimizer needs to tailor a resume
// to one listing. The bearer token is the caller's own and travels in the
// Authorization header, never in the request body.
type OptimizationInput struct {
	ResumeText      string `json:"resumeText"`
	RoleTitle       string `json:"roleTitle"`
	CompanyName     string `json:"companyName"`
	Domain          string `json:"domain"`
	FullDescription string `json:"fullDescription"`
	BearerToken     string `json:"-"`
}

// OptimizationOutput is the optimizer's artifact set for one attempt.
type OptimizationOutput struct {
	Content string `json:"content"`
	PdfURL  string `json:"pdfUrl"`
	DocxURL string `json:"docxUrl"`
	Score   int    `json:"score"`
}

// Client abstracts the external optimization service. The gateway treats the
// call as opaque; any error means no artifact was produced.
type Client interface {
	Optimize(ctx context.Context, input OptimizationInput) (*OptimizationOutput, error)
}

// HTTPClient talks to the hosted optimization service.
type HTTPClient struct {
	cfg    models.OptimizerConfig
	client *http.Client
}

func NewHTTPClient(cfg models.OptimizerConfig) *HTTPClient {
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *HTTPClient) Optimize(ctx context.Context, input OptimizationInput) (*OptimizationOutput, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode optimization request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/optimize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build optimization request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if input.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+input.BearerToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("optimization request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("optimizer returned status %d", resp.StatusCode)
	}

	var output OptimizationOutput
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return nil, fmt.Errorf("failed to decode optimizer response: %w", err)
	}
	if output.Content == "" {
		return nil, fmt.Errorf("optimizer returned an empty artifact")
	}
	return &output, nil
}

// LocalClient is a deterministic stand-in used when no optimizer service is
// configured. It prepends a targeting header and scores the resume by keyword
// overlap with the listing description.
type LocalClient struct{}

func NewLocalClient() *LocalClient {
	return &LocalClient{}
}

func (c *LocalClient) Optimize(ctx context.Context, input OptimizationInput) (*OptimizationOutput, error) {
	if strings.TrimSpace(input.ResumeText) == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Targeting: %s at %s\n", input.RoleTitle, input.CompanyName))
	if input.Domain != "" {
		sb.WriteString(fmt.Sprintf("Domain: %s\n", input.Domain))
	}
	sb.WriteString("\n")
	sb.WriteString(input.ResumeText)

	return &OptimizationOutput{
		Content: sb.String(),
		Score:   keywordOverlapScore(input.ResumeText, input.FullDescription),
	}, nil
}

func keywordOverlapScore(resume, description string) int {
	resumeWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(resume)) {
		if len(w) > 3 {
			resumeWords[strings.Trim(w, ".,;:()")] = true
		}
	}

	total, matched := 0, 0
	seen := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(description)) {
		w = strings.Trim(w, ".,;:()")
		if len(w) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		total++
		if resumeWords[w] {
			matched++
		}
	}

	if total == 0 {
		return 50
	}
	return matched * 100 / total
}
