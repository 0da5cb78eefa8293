// Package policy holds one authorization predicate per operation, shared by
// the use cases and the REST layer.
package policy

import "acme-explorer-service/internal/domain/entity"

// CanReadFinder allows the owning actor or an admin
func CanReadFinder(actor entity.Actor, finder *entity.Finder) bool {
	return actor.IsAdmin() || (actor.ID != "" && actor.ID == finder.ActorID)
}

// CanMutateFinder follows the same owner-or-admin rule as reads
func CanMutateFinder(actor entity.Actor, finder *entity.Finder) bool {
	return CanReadFinder(actor, finder)
}

// CanSearchFinderTrips decides who may run a finder's cached search: owner or admin.
func CanSearchFinderTrips(actor entity.Actor, finder *entity.Finder) bool {
	return CanReadFinder(actor, finder)
}

// CanCreateTrip allows managers only
func CanCreateTrip(actor entity.Actor) bool {
	return actor.IsManager()
}

// CanMutateTrip allows only the trip's own manager
func CanMutateTrip(actor entity.Actor, trip *entity.Trip) bool {
	return actor.IsManager() && actor.ID != "" && actor.ID == trip.ManagerID
}

// CanViewTrip hides INACTIVE trips from everyone but their manager and admins.
// actor is nil for anonymous requests.
func CanViewTrip(actor *entity.Actor, trip *entity.Trip) bool {
	if trip.State != entity.TripStateInactive {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || CanMutateTrip(*actor, trip)
}

// CanManageWarehouse guards indicator listing, rebuild period changes and the data cube
func CanManageWarehouse(actor entity.Actor) bool {
	return actor.IsAdmin()
}

// CanManageConfiguration guards runtime configuration changes
func CanManageConfiguration(actor entity.Actor) bool {
	return actor.IsAdmin()
}
