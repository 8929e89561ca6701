package progression

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the kind of outbound UI notification.
type NotificationType string

const (
	NoteTierUnlocked    NotificationType = "tier_unlocked"
	NoteMissionComplete NotificationType = "mission_complete"
	NoteRewardClaimed   NotificationType = "reward_claimed"
)

// pulseDuration is the suggested display time for transient effects. The
// view layer owns the actual timer and its cancellation.
const pulseDuration = 3 * time.Second

// Notification is an outbound event for the UI layer. Only the fields
// relevant to Type are populated.
type Notification struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	Level         int              `json:"level,omitempty"`
	MissionID     string           `json:"missionId,omitempty"`
	MissionTitle  string           `json:"missionTitle,omitempty"`
	XPGranted     int              `json:"xpGranted,omitempty"`
	RewardName    string           `json:"rewardName,omitempty"`
	PulseDuration time.Duration    `json:"pulseDuration"`
}

// NotifyFunc receives notifications. Registered callbacks are invoked
// outside the engine lock, in mutation order.
type NotifyFunc func(Notification)

func newNotification(t NotificationType) Notification {
	return Notification{
		ID:            uuid.NewString(),
		Type:          t,
		PulseDuration: pulseDuration,
	}
}

// ActionEvent is a real-world field action delivered by the CRM feed (or the
// mock generator). XP is the amount to grant; MissionID, when set, advances
// that mission by Steps (0 requests the default step).
type ActionEvent struct {
	Type      string `json:"type"`
	MissionID string `json:"missionId,omitempty"`
	Steps     int    `json:"steps,omitempty"`
	XP        int    `json:"xp,omitempty"`
}
