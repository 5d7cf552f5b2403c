package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownTask(t *testing.T) {
	d, ok := Lookup("code_generation")
	require.True(t, ok)
	assert.Equal(t, FamilyPassRate, d.Family)
	assert.True(t, d.HasDifficulty)
	assert.Contains(t, d.Datasets, "HackerRank")
}

func TestLookup_UnknownTask(t *testing.T) {
	_, ok := Lookup("code_golf")
	assert.False(t, ok)
}

func TestResolve_EmptyReturnsAll(t *testing.T) {
	ds, err := Resolve(nil)
	require.NoError(t, err)
	assert.Len(t, ds, len(Names()))
}

func TestResolve_UnknownListsValidNames(t *testing.T) {
	_, err := Resolve([]string{"code_golf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown task "code_golf"`)
	for _, name := range Names() {
		assert.Contains(t, err.Error(), name, "error must list every valid task")
	}
}

func TestColumns_DifficultyOff(t *testing.T) {
	d, ok := Lookup("code_translation")
	require.True(t, ok)
	assert.Equal(t, []string{"pass@1", "pass@3", "pass@5", "codebleu"}, d.Columns(false))
}

func TestColumns_DifficultyOn(t *testing.T) {
	d, ok := Lookup("code_translation")
	require.True(t, ok)
	cols := d.Columns(true)
	assert.Equal(t, []string{
		"easy_pass@1", "easy_pass@3", "easy_pass@5",
		"medium_pass@1", "medium_pass@3", "medium_pass@5",
		"hard_pass@1", "hard_pass@3", "hard_pass@5",
		"codebleu",
	}, cols, "codebleu stays a single overall column in difficulty mode")
}

func TestColumns_DifficultyIgnoredWithoutSupport(t *testing.T) {
	d, ok := Lookup("web_generation")
	require.True(t, ok)
	assert.Equal(t, d.Columns(false), d.Columns(true))
}

func TestPrimaryMetric_PerFamily(t *testing.T) {
	tests := []struct {
		task       string
		difficulty bool
		want       string
	}{
		{"code_generation", false, "pass@1"},
		{"code_generation", true, "easy_pass@1"},
		{"code_summarization", false, "llm_judge"},
		{"vulnerability_detection", false, "f1_score"},
		{"web_generation", false, "clip"},
		{"interaction_to_code", false, "clip"},
		{"code_robustness", false, "robust_score"},
	}
	for _, tt := range tests {
		d, ok := Lookup(tt.task)
		require.True(t, ok, tt.task)
		assert.Equal(t, tt.want, d.PrimaryMetric(tt.difficulty), "%s difficulty=%v", tt.task, tt.difficulty)
	}
}

func TestRegistry_DeclaredFacetsAreConsistent(t *testing.T) {
	for _, d := range All() {
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Metrics, "%s must declare columns", d.ID)
		assert.Contains(t, d.Columns(false), d.PrimaryMetric(false), "%s primary metric must be a declared column", d.ID)
		if d.HasDifficulty {
			assert.NotEmpty(t, d.TierMetrics, "%s supports difficulty but declares no tier metrics", d.ID)
		}
		if len(d.Judges) > 0 {
			assert.Equal(t, FamilyLLMJudge, d.Family, "%s declares judges outside the judge family", d.ID)
		}
	}
}
