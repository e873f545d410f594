package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountByState(t *testing.T) {
	data := []Die{
		{1, 1, 1, 1, DieStateProbe},
		{1, 1, 1, 1, DieStateExclusion},
		{1, 1, 1, 1, DieStateExclusion},
		{1, 1, 1, 1, DieStateExclusion},
		{1, 1, 1, 1, DieStateFlat},
		{1, 1, 1, 1, DieStateFlat},
		{1, 1, 1, 1, DieStateScribe},
		{1, 1, 1, 1, DieStateWafer},
	}

	tests := []struct {
		state DieState
		want  int
	}{
		{DieStateExclusion, 3},
		{DieStateFlat, 2},
		{DieStateScribe, 1},
		{DieStateFlatExclusion, 0},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CountByState(data, tt.state))
		})
	}

	counts := StateCounts(data)
	assert.Equal(t, 3, counts[DieStateExclusion])
	assert.Equal(t, 1, counts[DieStateProbe])
}

func TestParseDieState(t *testing.T) {
	for _, st := range DieStates {
		got, err := ParseDieState(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	got, err := ParseDieState(" FLATEXCL ")
	require.NoError(t, err)
	assert.Equal(t, DieStateFlatExclusion, got)

	_, err = ParseDieState("good")
	assert.Error(t, err)
}

func TestWaferParamsValidate(t *testing.T) {
	valid := NewWaferParams(5, 5, 150)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *WaferParams)
	}{
		{"zero die x", func(p *WaferParams) { p.DieX = 0 }},
		{"negative die y", func(p *WaferParams) { p.DieY = -1 }},
		{"zero diameter", func(p *WaferParams) { p.Diameter = 0 }},
		{"negative edge exclusion", func(p *WaferParams) { p.EdgeExclusion = -0.1 }},
		{"negative flat exclusion", func(p *WaferParams) { p.FlatExclusion = -3 }},
		{"NaN die x", func(p *WaferParams) { p.DieX = math.NaN() }},
		{"infinite die y", func(p *WaferParams) { p.DieY = math.Inf(1) }},
		{"NaN diameter", func(p *WaferParams) { p.Diameter = math.NaN() }},
		{"infinite diameter", func(p *WaferParams) { p.Diameter = math.Inf(1) }},
		{"NaN edge exclusion", func(p *WaferParams) { p.EdgeExclusion = math.NaN() }},
		{"infinite flat exclusion", func(p *WaferParams) { p.FlatExclusion = math.Inf(1) }},
		{"NaN north limit", func(p *WaferParams) { p.NorthLimit = Float(math.NaN()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParams))
		})
	}
}

func TestWaferParamsValidateRejectsNonFiniteOffset(t *testing.T) {
	p := NewWaferParams(5, 5, 150)
	p.Offset = OffsetPair{X: NumericOffset(math.NaN()), Y: ParityOffset(ParityOdd)}
	assert.ErrorIs(t, p.Validate(), ErrInvalidOffset)

	p.Offset = OffsetPair{X: ParityOffset(ParityEven), Y: NumericOffset(math.Inf(-1))}
	assert.ErrorIs(t, p.Validate(), ErrInvalidOffset)
}

func TestEffectiveNorthLimitDefaultsToDiameter(t *testing.T) {
	p := NewWaferParams(5, 5, 150)
	assert.Equal(t, 150.0, p.EffectiveNorthLimit())

	p.NorthLimit = Float(70.2)
	assert.Equal(t, 70.2, p.EffectiveNorthLimit())
}

func TestWaferParamsJSONKeepsOffsets(t *testing.T) {
	p := NewWaferParams(2.9, 3.3, 150)
	p.Offset = OffsetPair{X: NumericOffset(-1.65), Y: ParityOffset(ParityEven)}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"offset":[-1.65,"even"]`)

	var back WaferParams
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p.Offset, back.Offset)
}

func TestWaferProfiles(t *testing.T) {
	for _, p := range WaferProfiles {
		if !p.IsBuiltIn {
			t.Errorf("built-in profile %s should have IsBuiltIn=true", p.Name)
		}
	}

	p, ok := GetWaferProfile("150MM")
	require.True(t, ok)
	assert.Equal(t, 150.0, p.Diameter)

	custom := WaferProfile{Name: "150mm", Diameter: 150, EdgeExclusion: 2}
	p, ok = GetWaferProfile("150mm", custom)
	require.True(t, ok)
	assert.Equal(t, 2.0, p.EdgeExclusion, "custom profile should shadow built-in")

	_, ok = GetWaferProfile("450mm")
	assert.False(t, ok)

	params := NewWaferParams(1, 1, 0)
	p.Apply(&params)
	assert.Equal(t, 150.0, params.Diameter)
	assert.Equal(t, 2.0, params.EdgeExclusion)
}

func TestStandardDiametersSorted(t *testing.T) {
	assert.Equal(t, []float64{50, 75, 100, 125, 150}, StandardDiameters())
}
