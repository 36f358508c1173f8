package insight

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	appcfg "github.com/modassist/core/internal/config"
	"github.com/modassist/core/internal/modules/processing/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClient replays scripted responses and counts calls.
type fakeClient struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeClient) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func (f *fakeClient) Model() string { return "test-model" }

func testConfig() *appcfg.AppConfig {
	return &appcfg.AppConfig{
		MaxInputChars:     4000,
		RetrievalTopK:     0,
		ToneProfile:       "direct",
		MaxRepairAttempts: 2,
	}
}

func testService(cfg *appcfg.AppConfig, client generationClient) *Service {
	return &Service{
		cfg:       cfg,
		log:       zap.NewNop(),
		knowledge: knowledge.NewService(filepath.Join("testdata", "absent.json")),
		client:    client,
	}
}

func cleanAnalysisJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(baseAnalysis(RiskLow))
	require.NoError(t, err)
	return string(data)
}

func dirtyAnalysisJSON(t *testing.T) string {
	t.Helper()
	analysis := baseAnalysis(RiskLow)
	analysis.Triage.Rationale = "range 3–5 comments" // en dash trips the linter
	data, err := json.Marshal(analysis)
	require.NoError(t, err)
	return string(data)
}

func TestAnalyzeHappyPath(t *testing.T) {
	client := &fakeClient{responses: []string{cleanAnalysisJSON(t)}}
	svc := testService(testConfig(), client)

	result, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, client.calls)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, CategoryOther, result.Category)
	assert.Equal(t, "test-model", result.Model)
	assert.Contains(t, result.Document, headingRiskTriage)
}

func TestAnalyzeRepairsLintFindings(t *testing.T) {
	client := &fakeClient{responses: []string{dirtyAnalysisJSON(t), cleanAnalysisJSON(t)}}
	svc := testService(testConfig(), client)

	result, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 2, client.calls)
	assert.Empty(t, result.Warnings)
}

func TestAnalyzeExhaustsRepairBudget(t *testing.T) {
	client := &fakeClient{responses: []string{dirtyAnalysisJSON(t)}}
	svc := testService(testConfig(), client)

	result, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	require.NoError(t, err)

	// First attempt plus max_repair_attempts regenerations, then best effort.
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, client.calls)
	assert.NotEmpty(t, result.Warnings)
	assert.NotEmpty(t, result.Document)
}

func TestAnalyzeMalformedJSONRetriedOnce(t *testing.T) {
	client := &fakeClient{responses: []string{"this is not JSON", cleanAnalysisJSON(t)}}
	svc := testService(testConfig(), client)

	result, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 2, client.calls)
}

func TestAnalyzeMalformedJSONTwiceFails(t *testing.T) {
	client := &fakeClient{responses: []string{"nope", "still nope"}}
	svc := testService(testConfig(), client)

	_, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
	assert.Equal(t, 2, client.calls)
}

func TestAnalyzeFencedJSONAccepted(t *testing.T) {
	client := &fakeClient{responses: []string{"```json\n" + cleanAnalysisJSON(t) + "\n```"}}
	svc := testService(testConfig(), client)

	result, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 1, result.Attempts)
}

func TestAnalyzeProviderErrorIsFatal(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream boom")}
	svc := testService(testConfig(), client)

	_, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestAnalyzeWithoutProvider(t *testing.T) {
	svc := testService(testConfig(), nil)

	_, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	assert.True(t, errors.Is(err, ErrNoProvider))
}

func TestAnalyzeMissingKnowledgeBase(t *testing.T) {
	cfg := testConfig()
	cfg.RetrievalTopK = 4
	svc := testService(cfg, &fakeClient{responses: []string{cleanAnalysisJSON(t)}})

	_, err := svc.Analyze(context.Background(), "What a nice sunny day.", "website")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKnowledgeUnavailable))
}

func TestAnalyzeThreatGetsEnforcedReply(t *testing.T) {
	analysis := baseAnalysis(RiskHigh)
	analysis.ToneReply.PublicReply = "We understand your frustration."
	data, err := json.Marshal(analysis)
	require.NoError(t, err)

	client := &fakeClient{responses: []string{string(data)}}
	svc := testService(testConfig(), client)

	result, err := svc.Analyze(context.Background(), "Delete it or else I'll make sure you regret it.", "website")
	require.NoError(t, err)

	assert.Equal(t, CategoryCoercionThreat, result.Category)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, result.Warnings)
	assert.True(t, result.Analysis.ToneReply.IncludeDM)
	assert.Contains(t, result.Document, directMessageMarker)
	assert.Contains(t, result.Analysis.ToneReply.PublicReply, "we will remove")
}
