// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package constants

// NATS stream and subject constants
const (
	// AdditionQueueStream is the JetStream stream holding queued addition work items
	AdditionQueueStream = "GROUP_ADDITIONS"
	// AdditionQueueSubject is the subject addition work items are enqueued on
	AdditionQueueSubject = "vereinsbot.queue.additions"
	// AdditionQueueConsumer is the durable consumer name for the addition queue
	AdditionQueueConsumer = "group-lifecycle-additions"

	// RemovalQueueStream is the JetStream stream holding queued removal work items
	RemovalQueueStream = "GROUP_REMOVALS"
	// RemovalQueueSubject is the subject removal work items are enqueued on
	RemovalQueueSubject = "vereinsbot.queue.removals"
	// RemovalQueueConsumer is the durable consumer name for the removal queue
	RemovalQueueConsumer = "group-lifecycle-removals"
)

// NATS subject constants for outbound messages
const (
	// NotifyAdditionFailureSubject carries consolidated addition failure reports
	NotifyAdditionFailureSubject = "vereinsbot.notify.addition_failure"
	// NotifyRemovalFailureSubject carries removal failure reports
	NotifyRemovalFailureSubject = "vereinsbot.notify.removal_failure"

	// RegistryListPhonesSubject is the request/reply subject for listing
	// the phones associated with a registration
	RegistryListPhonesSubject = "vereinsbot.registry.list_phones"
)
