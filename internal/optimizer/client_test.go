package optimizer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobpilot-go/internal/models"
)

func TestHTTPClient_ForwardsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":"tailored","pdfUrl":"https://files.example/r.pdf","score":70}`)
	}))
	defer server.Close()

	client := NewHTTPClient(models.OptimizerConfig{BaseURL: server.URL, Timeout: time.Second})
	output, err := client.Optimize(context.Background(), OptimizationInput{
		ResumeText:  "Go engineer",
		RoleTitle:   "Backend Engineer",
		CompanyName: "Acme Corp",
		BearerToken: "session-token",
	})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if output.Content != "tailored" || output.Score != 70 {
		t.Errorf("Unexpected output: %+v", output)
	}
	if gotAuth != "Bearer session-token" {
		t.Errorf("Expected caller token in Authorization header, got %q", gotAuth)
	}
}

func TestHTTPClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(models.OptimizerConfig{BaseURL: server.URL, Timeout: time.Second})
	if _, err := client.Optimize(context.Background(), OptimizationInput{ResumeText: "Go engineer"}); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestHTTPClient_EmptyArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":""}`)
	}))
	defer server.Close()

	client := NewHTTPClient(models.OptimizerConfig{BaseURL: server.URL, Timeout: time.Second})
	if _, err := client.Optimize(context.Background(), OptimizationInput{ResumeText: "Go engineer"}); err == nil {
		t.Error("Expected error for empty artifact")
	}
}
