package queue

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_DefaultParams(t *testing.T) {
	m, err := Evaluate(DefaultParams())
	require.NoError(t, err)
	assert.InDelta(t, 0.4, m.Utilization, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.InSystem, 1e-12)
	assert.InDelta(t, 0.16/0.6, m.InQueue, 1e-12)
	assert.InDelta(t, 1.0/3.0, m.TimeInSystem, 1e-12)
	assert.InDelta(t, 2.0/15.0, m.TimeInQueue, 1e-12)
}

func TestEvaluate_LittlesLaw(t *testing.T) {
	for _, p := range []Params{
		{ArrivalRate: 1, ServiceRate: 1.5},
		{ArrivalRate: 0.1, ServiceRate: 10},
		{ArrivalRate: 9.99, ServiceRate: 10},
	} {
		m, err := Evaluate(p)
		require.NoError(t, err)
		assert.InEpsilon(t, m.InSystem, p.ArrivalRate*m.TimeInSystem, 1e-9, "L = λW for %+v", p)
		assert.InEpsilon(t, m.InQueue, p.ArrivalRate*m.TimeInQueue, 1e-9, "Lq = λWq for %+v", p)
	}
}

func TestEvaluate_Branches(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{name: "overloaded", p: Params{ArrivalRate: 5, ServiceRate: 2}, want: ErrUnstable},
		{name: "critically loaded", p: Params{ArrivalRate: 5, ServiceRate: 5}, want: ErrUnstable},
		{name: "both zero", p: Params{ArrivalRate: 0, ServiceRate: 0}, want: ErrUnstable},
		{name: "both negative", p: Params{ArrivalRate: -1, ServiceRate: -2}, want: ErrUnstable},
		{name: "zero arrivals", p: Params{ArrivalRate: 0, ServiceRate: 5}, want: ErrOutsideModel},
		{name: "negative arrivals", p: Params{ArrivalRate: -2, ServiceRate: 5}, want: ErrOutsideModel},
		{name: "negative arrivals and service", p: Params{ArrivalRate: -3, ServiceRate: -1}, want: ErrOutsideModel},
		{name: "NaN service", p: Params{ArrivalRate: 2, ServiceRate: math.NaN()}, want: ErrOutsideModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Evaluate(tt.p)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, m)
		})
	}
}
