// Package mcp holds the building blocks shared by the MCP tool handlers.
package mcp

import (
	"fmt"
	"strings"
)

const defaultMaxTokens = 4000

// ResponseBuilder constructs token-budgeted Markdown responses for MCP tools.
type ResponseBuilder struct {
	buf           strings.Builder
	tokenEstimate int
	maxTokens     int
	truncated     bool
	itemCount     int
}

// NewResponseBuilder creates a builder with the given token budget.
// If maxTokens <= 0, defaultMaxTokens is used.
func NewResponseBuilder(maxTokens int) *ResponseBuilder {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &ResponseBuilder{maxTokens: maxTokens}
}

// AddHeader writes a header line to the response.
func (rb *ResponseBuilder) AddHeader(text string) {
	line := text + "\n\n"
	rb.buf.WriteString(line)
	rb.tokenEstimate += len(line) / 4
}

// AddLine writes a single line to the response, returning false if budget exceeded.
func (rb *ResponseBuilder) AddLine(text string) bool {
	line := text + "\n"
	cost := len(line) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(line)
	rb.tokenEstimate += cost
	rb.itemCount++
	return true
}

// AddSection writes a section with a heading.
func (rb *ResponseBuilder) AddSection(heading string, content string) bool {
	section := fmt.Sprintf("### %s\n%s\n\n", heading, content)
	cost := len(section) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(section)
	rb.tokenEstimate += cost
	return true
}

// Finalize appends a truncation notice and returns the final response text.
func (rb *ResponseBuilder) Finalize(totalCount, returnedCount int) string {
	if rb.truncated || returnedCount < totalCount {
		rb.buf.WriteString(fmt.Sprintf(
			"\n---\n*Showing %d of %d results (truncated to ~%d tokens).*\n",
			returnedCount, totalCount, rb.maxTokens))
	}
	return rb.buf.String()
}

// TokenEstimate returns the current estimated token count.
func (rb *ResponseBuilder) TokenEstimate() int {
	return rb.tokenEstimate
}

// IsTruncated returns whether the response was truncated.
func (rb *ResponseBuilder) IsTruncated() bool {
	return rb.truncated
}

// ItemCount returns the number of items added.
func (rb *ResponseBuilder) ItemCount() int {
	return rb.itemCount
}
