package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch_KeepsOrderAndCollectsErrors(t *testing.T) {
	a := NewAnalyzer(&fakeExtractor{text: "resume body"}, &fakeCompleter{result: validMapping()})

	inputs := []Input{
		{Source: "a.txt", Path: "/tmp/a.txt"},
		{Source: "pasted", Text: "   "},
		{Source: "pasted-2", Text: "real text"},
	}

	outcomes, err := a.RunBatch(context.Background(), inputs, 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "a.txt", outcomes[0].Source)
	assert.NoError(t, outcomes[0].Err)
	assert.NotNil(t, outcomes[0].Analysis)

	assert.Equal(t, "pasted", outcomes[1].Source)
	var noText *NoTextError
	assert.ErrorAs(t, outcomes[1].Err, &noText)
	assert.Nil(t, outcomes[1].Analysis)

	assert.Equal(t, "pasted-2", outcomes[2].Source)
	assert.NoError(t, outcomes[2].Err)
}

func TestRunBatch_CancelledContext(t *testing.T) {
	a := NewAnalyzer(&fakeExtractor{text: "x"}, &fakeCompleter{result: validMapping()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := a.RunBatch(ctx, []Input{{Source: "a", Text: "x"}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}
