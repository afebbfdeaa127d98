package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func validEvent() Event {
	return Event{
		RunID:  uuid.New(),
		TS:     time.Now().UTC(),
		Stage:  StageItemSaved,
		Source: "itviec",
		URL:    "https://itviec.com/it-jobs/example-1",
		Count:  3,
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validEvent().Validate())

	evt := validEvent()
	evt.RunID = uuid.Nil
	assert.Error(t, evt.Validate())

	evt = validEvent()
	evt.TS = time.Time{}
	assert.Error(t, evt.Validate())

	evt = validEvent()
	evt.Source = ""
	assert.Error(t, evt.Validate())

	evt = validEvent()
	evt.Stage = "SOMETHING_ELSE"
	assert.Error(t, evt.Validate())

	// Run-level events carry no source.
	evt = validEvent()
	evt.Stage = StageRunDone
	evt.Source = ""
	assert.NoError(t, evt.Validate())
}

func TestLogSinkEmit(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	sink.Emit(validEvent())
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "progress event", entry.Message)
	assert.Equal(t, "itviec", entry.ContextMap()["source"])

	sink.Emit(Event{Stage: StageItemSaved})
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "invalid progress event", logs.All()[1].Message)
}
