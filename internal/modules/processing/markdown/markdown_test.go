package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("## Risk Triage\n\nRisk level: low\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "Risk Triage")
	assert.Contains(t, html, "Risk level: low")
}

func TestRenderHTMLEscapesRawHTML(t *testing.T) {
	html, err := RenderHTML("text with <script>alert(1)</script> inside")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
