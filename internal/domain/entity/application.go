package entity

import "time"

// Application states
const (
	ApplicationPending   = "pending"
	ApplicationRejected  = "rejected"
	ApplicationDue       = "due"
	ApplicationAccepted  = "accepted"
	ApplicationCancelled = "cancelled"
)

// Application is an explorer's request to join a trip. Only the fields the
// search and warehouse core read are modelled.
type Application struct {
	ID         string
	TripID     string
	ExplorerID string
	State      string
	UpdatedAt  time.Time
}
