package mcp

import (
	"strings"
	"testing"
)

func TestResponseBuilderBudget(t *testing.T) {
	rb := NewResponseBuilder(10)
	rb.AddHeader("**Header**")

	added := 0
	for i := 0; i < 100; i++ {
		if !rb.AddLine("- some fairly long line of markdown output") {
			break
		}
		added++
	}

	if !rb.IsTruncated() {
		t.Fatal("expected builder to truncate")
	}
	if added == 0 {
		t.Fatal("expected at least one line before truncation")
	}
	if rb.ItemCount() != added {
		t.Fatalf("item count %d, want %d", rb.ItemCount(), added)
	}

	out := rb.Finalize(100, added)
	if !strings.Contains(out, "truncated") {
		t.Fatalf("expected truncation notice, got %q", out)
	}
}

func TestResponseBuilderNoNoticeWhenComplete(t *testing.T) {
	rb := NewResponseBuilder(0)
	rb.AddHeader("**Header**")
	rb.AddLine("- one")
	rb.AddLine("- two")

	out := rb.Finalize(2, 2)
	if strings.Contains(out, "truncated") {
		t.Fatalf("unexpected truncation notice in %q", out)
	}
	if !strings.Contains(out, "- two") {
		t.Fatalf("missing content in %q", out)
	}
}

func TestResponseBuilderDefaultBudget(t *testing.T) {
	rb := NewResponseBuilder(-1)
	if rb.maxTokens != defaultMaxTokens {
		t.Fatalf("max tokens %d, want %d", rb.maxTokens, defaultMaxTokens)
	}
}
