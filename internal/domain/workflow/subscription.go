package workflow

// SubscriptionStatus estado de la assinatura de plano.
type SubscriptionStatus string

const (
	SubscriptionAwaitingPayment SubscriptionStatus = "aguardando_confirmacao_pagamento"
	SubscriptionActive          SubscriptionStatus = "ativo"
	SubscriptionSuspended       SubscriptionStatus = "suspenso"
	SubscriptionCancelled       SubscriptionStatus = "cancelado"
)

var SubscriptionStatuses = []SubscriptionStatus{
	SubscriptionAwaitingPayment, SubscriptionActive, SubscriptionSuspended, SubscriptionCancelled,
}

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionAwaitingPayment: {SubscriptionActive, SubscriptionCancelled},
	SubscriptionActive:          {SubscriptionSuspended, SubscriptionCancelled},
	SubscriptionSuspended:       {SubscriptionActive, SubscriptionCancelled},
	SubscriptionCancelled:       nil,
}

func (s SubscriptionStatus) targets() []SubscriptionStatus { return subscriptionTransitions[s] }

// ParseSubscriptionStatus convierte el valor de la base en enum.
func ParseSubscriptionStatus(raw string) (SubscriptionStatus, error) {
	return parse("assinatura", raw, SubscriptionStatuses)
}
