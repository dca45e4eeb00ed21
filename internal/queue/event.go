// Package queue defines message payloads exchanged over the message broker.
package queue

// TourPublishedEvent is published when a tour's status transitions to
// "published". It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type TourPublishedEvent struct {
	TourID      uint64 `json:"tour_id"`
	OwnerID     uint64 `json:"owner_id"`
	Title       string `json:"title"`
	StepCount   int    `json:"step_count"`
	PublishedAt string `json:"published_at"`
}
