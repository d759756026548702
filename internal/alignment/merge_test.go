package alignment

import (
	"testing"

	"github.com/jonathan/bitext-aligner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(texts ...string) types.Block {
	sentences := make([]types.Sentence, len(texts))
	for i, t := range texts {
		sentences[i] = types.NewBodySentence(t)
	}
	return types.NewBlock(sentences)
}

func corr(ps ...[2]int) types.Correspondence {
	out := make(types.Correspondence, len(ps))
	for i, p := range ps {
		out[i] = types.IndexPair{Source: p[0], Target: p[1]}
	}
	return out
}

func entryTexts(entries []types.BitextPair) [][2]string {
	out := make([][2]string, len(entries))
	for i, e := range entries {
		out[i] = [2]string{e.Source.Text, e.Target.Text}
	}
	return out
}

func TestMerge_Rules(t *testing.T) {
	source := body("S0", "S1", "S2", "S3")
	target := body("T0", "T1", "T2", "T3")

	tests := []struct {
		name string
		corr types.Correspondence
		want [][2]string
	}{
		{
			name: "one to one",
			corr: corr([2]int{0, 0}, [2]int{1, 1}, [2]int{2, 2}, [2]int{3, 3}),
			want: [][2]string{{"S0", "T0"}, {"S1", "T1"}, {"S2", "T2"}, {"S3", "T3"}},
		},
		{
			name: "one to many appends to target",
			corr: corr([2]int{0, 0}, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 3}),
			want: [][2]string{{"S0", "T0 T1"}, {"S1", "T2"}, {"S2 S3", "T3"}},
		},
		{
			name: "many to one appends to source",
			corr: corr([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 1}, [2]int{3, 2}, [2]int{3, 3}),
			want: [][2]string{{"S0 S1 S2", "T0"}, {"S3", "T1 T2 T3"}},
		},
		{
			name: "empty correspondence",
			corr: types.Correspondence{},
			want: [][2]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(0, source, target, tt.corr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entryTexts(got))
		})
	}
}

func TestMerge_DoesNotModifyBlocks(t *testing.T) {
	source := body("S0", "S1")
	target := body("T0")

	_, err := Merge(0, source, target, corr([2]int{0, 0}, [2]int{1, 0}))
	require.NoError(t, err)

	assert.Equal(t, "S0", source.Sentences[0].Text)
	assert.Equal(t, []int{2, 2}, source.Lengths)
}

func TestMerge_KeepsRoles(t *testing.T) {
	source := types.NewBlock([]types.Sentence{types.NewHeadingSentence("PART ONE", types.RolePartHeading), types.NewBodySentence("S1")})
	target := types.NewBlock([]types.Sentence{types.NewHeadingSentence("PARTIE UN", types.RoleBody), types.NewBodySentence("T1")})

	got, err := Merge(0, source, target, corr([2]int{0, 0}, [2]int{1, 1}))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.True(t, got[0].IsHeading())
	assert.False(t, got[1].IsHeading())
}

func TestMerge_ContractViolations(t *testing.T) {
	source := body("S0", "S1")
	target := body("T0", "T1")

	tests := []struct {
		name   string
		corr   types.Correspondence
		reason string
		pos    int
	}{
		{"duplicate pair", corr([2]int{0, 0}, [2]int{0, 0}), "repeats", 1},
		{"duplicate later", corr([2]int{0, 0}, [2]int{1, 1}, [2]int{1, 1}), "repeats", 2},
		{"source out of range", corr([2]int{0, 0}, [2]int{2, 1}), "source index", 1},
		{"target out of range", corr([2]int{0, -1}), "target index", 0},
		{"backwards", corr([2]int{1, 1}, [2]int{0, 1}), "monotonic", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(7, source, target, tt.corr)
			require.Error(t, err)
			assert.Nil(t, got)

			var violation *AlignerContractViolationError
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, 7, violation.Block)
			assert.Equal(t, tt.pos, violation.Position)
			assert.Contains(t, violation.Reason, tt.reason)
			assert.True(t, IsFatal(err))
		})
	}
}
