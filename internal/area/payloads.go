package area

// Event payloads emitted by the store.

// RegionCreatedPayload accompanies event.RegionCreated.
type RegionCreatedPayload struct {
	Area Area
}

// RegionUpdatedPayload accompanies event.RegionUpdated with full
// before/after snapshots for undo capture.
type RegionUpdatedPayload struct {
	ID     ID
	Before Area
	After  Area
}

// RegionDeletedPayload accompanies event.RegionDeleted.
type RegionDeletedPayload struct {
	ID   ID
	Area Area
}
