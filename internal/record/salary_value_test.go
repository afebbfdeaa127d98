package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalaryValueRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("classified object", func(t *testing.T) {
		t.Parallel()

		max := 2200.0
		v := SalaryInfoValue(&SalaryInfo{
			Kind:     SalaryUpTo,
			Max:      &max,
			Currency: "USD",
			Raw:      "Up to $2200",
		})
		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"up_to","max":2200,"currency":"USD","raw":"Up to $2200"}`, string(out))

		var back SalaryValue
		require.NoError(t, json.Unmarshal(out, &back))
		require.NotNil(t, back.Info)
		assert.Equal(t, SalaryUpTo, back.Info.Kind)
		assert.Empty(t, back.Text)
	})

	t.Run("free text", func(t *testing.T) {
		t.Parallel()

		out, err := json.Marshal(SalaryTextValue("15 - 20 triệu"))
		require.NoError(t, err)
		assert.Equal(t, `"15 - 20 triệu"`, string(out))

		var back SalaryValue
		require.NoError(t, json.Unmarshal(out, &back))
		assert.Nil(t, back.Info)
		assert.Equal(t, "15 - 20 triệu", back.Text)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()

		out, err := json.Marshal(SalaryValue{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))

		var back SalaryValue
		require.NoError(t, json.Unmarshal([]byte("null"), &back))
		assert.True(t, back.IsEmpty())
	})
}

func TestSalaryValueUnknownShapes(t *testing.T) {
	t.Parallel()

	// Object without a type is not a classified salary.
	var v SalaryValue
	require.NoError(t, json.Unmarshal([]byte(`{"min": 1000}`), &v))
	assert.True(t, v.IsEmpty())

	require.NoError(t, json.Unmarshal([]byte(`42`), &v))
	assert.True(t, v.IsEmpty())
}

func TestSalaryValueIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, SalaryValue{}.IsEmpty())
	assert.True(t, SalaryInfoValue(nil).IsEmpty())
	assert.False(t, SalaryTextValue("$100").IsEmpty())
	assert.False(t, SalaryInfoValue(&SalaryInfo{Kind: SalaryCompetitive}).IsEmpty())
}
