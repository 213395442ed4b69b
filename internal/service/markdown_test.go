package service

import (
	"strings"
	"testing"
)

func TestRenderRecommendationHTML(t *testing.T) {
	html := RenderRecommendationHTML("**Remove** affected leaves:\n\n- isolate the plant\n- water less often")

	if !strings.Contains(html, "<strong>Remove</strong>") {
		t.Fatalf("expected bold markup, got %s", html)
	}
	if !strings.Contains(html, "<li>") {
		t.Fatalf("expected list markup, got %s", html)
	}
}

func TestRenderRecommendationHTMLSanitizes(t *testing.T) {
	html := RenderRecommendationHTML(`keep watering <script>alert("x")</script> normally`)

	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script tags to be stripped, got %s", html)
	}
	if !strings.Contains(html, "keep watering") {
		t.Fatalf("expected text content to survive, got %s", html)
	}
}

func TestRenderRecommendationHTMLEmpty(t *testing.T) {
	if html := RenderRecommendationHTML(""); html != "" {
		t.Fatalf("expected empty output for empty input, got %q", html)
	}
}
