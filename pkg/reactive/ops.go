package reactive

// TrackOp identifies the kind of read that created a dependency edge.
type TrackOp uint8

const (
	// TrackGet records a dependency on a single key's value.
	TrackGet TrackOp = iota + 1

	// TrackHas records a dependency on a key's presence.
	TrackHas

	// TrackIterate records a dependency on the whole key set
	// (enumeration, size, iteration).
	TrackIterate
)

// String returns a human-readable name for the track operation.
func (op TrackOp) String() string {
	switch op {
	case TrackGet:
		return "get"
	case TrackHas:
		return "has"
	case TrackIterate:
		return "iterate"
	default:
		return "unknown"
	}
}

// TriggerOp identifies the kind of write that invalidated dependents.
type TriggerOp uint8

const (
	// TriggerSet is a value change on an existing key.
	TriggerSet TriggerOp = iota + 1

	// TriggerAdd is a newly created key (or array index past the old length).
	TriggerAdd

	// TriggerDelete is a removed key.
	TriggerDelete

	// TriggerClear empties a collection, invalidating every key.
	TriggerClear
)

// String returns a human-readable name for the trigger operation.
func (op TriggerOp) String() string {
	switch op {
	case TriggerSet:
		return "set"
	case TriggerAdd:
		return "add"
	case TriggerDelete:
		return "delete"
	case TriggerClear:
		return "clear"
	default:
		return "unknown"
	}
}

// sentinelKey is the type of the well-known pseudo-keys the engine uses
// for dependencies that are not tied to a single user key.
type sentinelKey string

const (
	// iterateKey subscribes a reader to the whole key set of a container.
	iterateKey sentinelKey = "iterate"

	// mapKeyIterateKey subscribes a reader to the key set of a map-like
	// container without depending on the values (MapView.Keys).
	mapKeyIterateKey sentinelKey = "map-key-iterate"

	// lengthKey subscribes a reader to an array's length.
	lengthKey sentinelKey = "length"
)

// TrackEvent describes a dependency edge being recorded.
// Delivered to an Effect's OnTrack diagnostic hook in debug mode.
type TrackEvent struct {
	Effect *Effect
	Target any
	Op     TrackOp
	Key    any
}

// TriggerEvent describes a write about to re-invoke an effect.
// Delivered to an Effect's OnTrigger diagnostic hook in debug mode.
type TriggerEvent struct {
	Effect   *Effect
	Target   any
	Op       TriggerOp
	Key      any
	NewValue any
	OldValue any
}
