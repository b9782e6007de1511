// Package eoq sizes inventory orders with the Economic Order Quantity model.
package eoq

import (
	"errors"
	"math"
)

// ErrNonPositive reports that a parameter was zero, negative or NaN. The
// calculator shows nothing in that case rather than an error message.
var ErrNonPositive = errors.New("eoq: demand, ordering cost and holding cost must all be positive")

// Params are the model inputs.
type Params struct {
	// Demand is the annual demand D in units.
	Demand float64 `json:"demand" mapstructure:"demand"`
	// OrderingCost is the fixed cost S of placing one order.
	OrderingCost float64 `json:"ordering_cost" mapstructure:"ordering_cost"`
	// HoldingCost is the cost H of holding one unit for a year.
	HoldingCost float64 `json:"holding_cost" mapstructure:"holding_cost"`
}

// DefaultParams is the worked example the calculator opens with.
func DefaultParams() Params {
	return Params{Demand: 1000, OrderingCost: 50000, HoldingCost: 10000}
}

// Result is the optimal ordering policy.
type Result struct {
	// Quantity is the economic order quantity √(2DS/H).
	Quantity float64 `json:"quantity"`
	// OrdersPerYear is D/Quantity.
	OrdersPerYear float64 `json:"orders_per_year"`
	// AnnualCost is the ordering plus holding cost at Quantity, √(2DSH).
	AnnualCost float64 `json:"annual_cost"`
}

// Calculate returns the EOQ policy, or ErrNonPositive unless D, S and H are
// all strictly positive.
func Calculate(p Params) (Result, error) {
	if !(p.Demand > 0 && p.OrderingCost > 0 && p.HoldingCost > 0) {
		return Result{}, ErrNonPositive
	}
	q := math.Sqrt(2 * p.Demand * p.OrderingCost / p.HoldingCost)
	return Result{
		Quantity:      q,
		OrdersPerYear: p.Demand / q,
		AnnualCost:    math.Sqrt(2 * p.Demand * p.OrderingCost * p.HoldingCost),
	}, nil
}
