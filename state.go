package primecache

// State is the lifecycle stage of a Cache.
//
//	Uninitialized -> Building -> Ready
//	                         \-> Failed
//
// Ready and Failed are terminal; a cache is never rebuilt.
type State int32

const (
	StateUninitialized State = iota
	StateBuilding
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
