package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpJSONKeepsSentinelsApart(t *testing.T) {
	op := Op{
		Kind: OpAmend,
		Step: "Step-2",
		Values: Values{
			"magnitude":                 12.5,
			"amplitude":                 Freed,
			"interferenceDirectionType": Symbol("COMPUTED"),
			"overclosure":               Computed,
		},
	}

	data, err := json.Marshal(op)
	require.NoError(t, err)

	var back Op
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, OpAmend, back.Kind)
	assert.Equal(t, "Step-2", back.Step)
	assert.Equal(t, Freed, back.Values["amplitude"])
	assert.Equal(t, Computed, back.Values["overclosure"])
	// literals come back as plain decoded JSON and are coerced by the kind schema
	assert.Equal(t, "COMPUTED", back.Values["interferenceDirectionType"])
	assert.Equal(t, 12.5, back.Values["magnitude"])
}

func TestOpUnmarshalRejectsUnknown(t *testing.T) {
	var op Op
	assert.Error(t, json.Unmarshal([]byte(`{"op":"explode","step":"Step-1"}`), &op))
	assert.Error(t, json.Unmarshal([]byte(`{"op":"amend","step":"Step-1","sentinels":{"a":"MAYBE"}}`), &op))
}

func TestValuesCloneDoesNotAlias(t *testing.T) {
	v := Values{
		"data":      Table{{0, 0}, {1, 1}},
		"direction": []float64{1, 0, 0},
		"region":    Region{Set: "Set-1"},
	}
	c := v.Clone()
	c["data"].(Table)[1][1] = 9
	c["direction"].([]float64)[0] = 7

	assert.Equal(t, 1.0, v["data"].(Table)[1][1])
	assert.Equal(t, 1.0, v["direction"].([]float64)[0])
	assert.Equal(t, Region{Set: "Set-1"}, c["region"])
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusDeactivated.Suppressed())
	assert.True(t, StatusNoLongerActive.Terminal())
	assert.False(t, StatusDeactivated.Terminal())
	assert.False(t, StatusPropagated.Suppressed())
	assert.Len(t, Statuses, 13)
}
