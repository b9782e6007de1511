// Package queue evaluates the steady state of an M/M/1 queue: Poisson
// arrivals, exponential service times and a single server.
package queue

import "errors"

var (
	// ErrUnstable reports λ >= μ: the queue grows without bound.
	ErrUnstable = errors.New("service rate must exceed arrival rate to avoid unbounded queue growth")
	// ErrOutsideModel reports inputs that are neither a stable queue nor an
	// overloaded one, such as a non-positive arrival rate. The calculator
	// shows nothing for them.
	ErrOutsideModel = errors.New("arrival rate must be positive")
)

// Params are the model inputs, in events per unit of time.
type Params struct {
	ArrivalRate float64 `json:"arrival_rate" mapstructure:"arrival_rate"`
	ServiceRate float64 `json:"service_rate" mapstructure:"service_rate"`
}

// DefaultParams is the worked example the calculator opens with.
func DefaultParams() Params {
	return Params{ArrivalRate: 2.0, ServiceRate: 5.0}
}

// Metrics are the steady-state measures of a stable queue.
type Metrics struct {
	// Utilization ρ = λ/μ.
	Utilization float64 `json:"utilization"`
	// InSystem L is the mean number of customers in the system.
	InSystem float64 `json:"in_system"`
	// InQueue Lq is the mean number of customers waiting.
	InQueue float64 `json:"in_queue"`
	// TimeInSystem W is the mean time a customer spends in the system.
	TimeInSystem float64 `json:"time_in_system"`
	// TimeInQueue Wq is the mean time a customer waits before service.
	TimeInQueue float64 `json:"time_in_queue"`
}

// Evaluate returns the steady-state metrics when λ > 0 and μ > λ,
// ErrUnstable when λ >= μ and ErrOutsideModel otherwise.
func Evaluate(p Params) (Metrics, error) {
	lambda, mu := p.ArrivalRate, p.ServiceRate
	switch {
	case lambda > 0 && mu > lambda:
	case lambda >= mu:
		return Metrics{}, ErrUnstable
	default:
		return Metrics{}, ErrOutsideModel
	}
	rho := lambda / mu
	return Metrics{
		Utilization:  rho,
		InSystem:     rho / (1 - rho),
		InQueue:      rho * rho / (1 - rho),
		TimeInSystem: 1 / (mu - lambda),
		TimeInQueue:  lambda / (mu * (mu - lambda)),
	}, nil
}
