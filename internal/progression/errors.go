package progression

import "errors"

// ErrNotEligible is returned when a claim is attempted before the mission is
// complete, on an already-claimed mission, or for a reward above the current
// tier. Recoverable: surfaced as a user-facing rejection, no state change.
var ErrNotEligible = errors.New("not eligible")

// ErrAlreadyClaimed is returned when a reward ID is already in the claimed
// ledger. The first claim stands; the repeat call mutates nothing.
var ErrAlreadyClaimed = errors.New("already claimed")

// ErrUnknownMission is returned when a mission ID is not in the catalog.
var ErrUnknownMission = errors.New("unknown mission")

// ErrUnknownReward is returned when a reward ID is not granted by any tier
// in the ladder.
var ErrUnknownReward = errors.New("unknown reward")
