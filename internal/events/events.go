// Package events defines the observable side effects of the settlement
// engine and the publisher used to fan them out to subscribers.
package events

import "time"

// MintEvent records collateral locked and option tokens created.
type MintEvent struct {
	Seller       string    `json:"seller"`
	Owner        string    `json:"owner"`
	Amount       uint64    `json:"amount"`
	StrikeLocked uint64    `json:"strike_locked"`
	Time         time.Time `json:"time"`
}

// ExerciseEvent records an option exercise: underlying pulled in, strike
// paid out of the pooled collateral.
type ExerciseEvent struct {
	Holder       string    `json:"holder"`
	Amount       uint64    `json:"amount"`
	UnderlyingIn uint64    `json:"underlying_in"`
	StrikeOut    uint64    `json:"strike_out"`
	Time         time.Time `json:"time"`
}

// WithdrawEvent records a seller redeeming their proportional share after
// expiration.
type WithdrawEvent struct {
	Seller        string    `json:"seller"`
	UnderlyingOut uint64    `json:"underlying_out"`
	StrikeOut     uint64    `json:"strike_out"`
	Time          time.Time `json:"time"`
}

// Publisher fans settlement events out to subscribers. The engine publishes
// through this interface so it never depends on the transport.
type Publisher interface {
	PublishMint(ev *MintEvent)
	PublishExercise(ev *ExerciseEvent)
	PublishWithdraw(ev *WithdrawEvent)
}

// NopPublisher drops all events. Used when the engine is embedded as a
// library and nobody subscribes.
type NopPublisher struct{}

func (NopPublisher) PublishMint(*MintEvent)         {}
func (NopPublisher) PublishExercise(*ExerciseEvent) {}
func (NopPublisher) PublishWithdraw(*WithdrawEvent) {}
