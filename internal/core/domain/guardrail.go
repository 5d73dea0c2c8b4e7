package domain

// DenylistKind identifies what a denylist entry matches against.
type DenylistKind string

const (
	DenyWallet DenylistKind = "wallet"
	DenyDevice DenylistKind = "device"
	DenyIP     DenylistKind = "ip"
)

// DenylistEntry blocks all transfers touching the given subject.
type DenylistEntry struct {
	Kind  DenylistKind `json:"kind"`
	Value string       `json:"value"`
}
