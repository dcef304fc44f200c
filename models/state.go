package models

// UnfollowState is the removal policy for a tracked friend. It is persisted
// as the need_unfollow boolean but handled as a two-state machine: newly
// discovered non-follower friends start as StatePendingRemoval, an operator
// can move a record to StateExempt, and reconciliation must carry the exempt
// state forward across runs.
type UnfollowState int

const (
	// StatePendingRemoval marks a record for the next unfollow run.
	StatePendingRemoval UnfollowState = iota
	// StateExempt keeps a record even though the account does not follow back.
	StateExempt
)

func (s UnfollowState) String() string {
	if s == StateExempt {
		return "exempt"
	}
	return "pending_removal"
}

// StateFromFlag converts the persisted need_unfollow flag.
func StateFromFlag(needUnfollow bool) UnfollowState {
	if needUnfollow {
		return StatePendingRemoval
	}
	return StateExempt
}
