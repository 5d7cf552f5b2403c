package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_MarshalFlattensColumns(t *testing.T) {
	row := Row{
		Rank:     1,
		Model:    "meta-llama/Meta-Llama-3.1-70B-Instruct",
		ModelURL: "https://huggingface.co/meta-llama/Meta-Llama-3.1-70B-Instruct",
		Columns: map[string]string{
			"pass@1": "66.7",
			"pass@3": "-",
		},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, float64(1), flat["rank"])
	assert.Equal(t, "meta-llama/Meta-Llama-3.1-70B-Instruct", flat["model"])
	assert.Equal(t, "66.7", flat["pass@1"])
	assert.Equal(t, "-", flat["pass@3"])
	assert.NotContains(t, flat, "Columns", "columns must be flattened, not nested")
}

func TestRow_RoundTrip(t *testing.T) {
	in := Row{
		Rank:     3,
		Model:    "gpt-4o",
		ModelURL: "",
		Columns:  map[string]string{"llm_judge": "84.0"},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Row
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.Rank, out.Rank)
	assert.Equal(t, in.Model, out.Model)
	assert.Equal(t, in.ModelURL, out.ModelURL)
	assert.Equal(t, in.Columns, out.Columns)
}

func TestRow_UnmarshalAcceptsNumericColumns(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal([]byte(`{"rank": 2, "model": "m", "model_url": "", "f1_score": 91.2}`), &row))
	assert.Equal(t, "91.2", row.Columns["f1_score"])
}

func TestRow_MarshalRejectsReservedColumn(t *testing.T) {
	row := Row{Rank: 1, Model: "m", Columns: map[string]string{"model": "sneaky"}}
	_, err := json.Marshal(row)
	require.Error(t, err)
}

func TestRow_ColumnCopyIsIndependent(t *testing.T) {
	row := Row{Rank: 1, Model: "m", Columns: map[string]string{"pass@1": "50.0"}}
	cp := row.ColumnCopy()
	cp["pass@1"] = "0.0"
	assert.Equal(t, "50.0", row.Columns["pass@1"])
	assert.NotContains(t, cp, "rank")
	assert.NotContains(t, cp, "model")
}

func TestCombinationDescriptor_Key(t *testing.T) {
	c := CombinationDescriptor{Filename: "code_generation_humaneval_python.json"}
	assert.Equal(t, "code_generation_humaneval_python", c.Key())
}
