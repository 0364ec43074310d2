package service

import "testing"

func TestRewardForAttempt(t *testing.T) {
	rewards := NewRewardService()

	tests := []struct {
		name          string
		attemptNumber int
		want          int
	}{
		{"first attempt earns full reward", 1, 10},
		{"second attempt earns two thirds", 2, 7},
		{"third attempt earns one third", 3, 3},
		{"beyond the table clamps to the last multiplier", 4, 3},
		{"far beyond the table still clamps", 99, 3},
		{"zero clamps to the first attempt", 0, 10},
		{"negative clamps to the first attempt", -5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewards.RewardForAttempt(tt.attemptNumber); got != tt.want {
				t.Errorf("RewardForAttempt(%d) = %d, want %d", tt.attemptNumber, got, tt.want)
			}
		})
	}
}

func TestPreviewNextRewardMatchesActualGrant(t *testing.T) {
	rewards := NewRewardService()

	for attempts := 0; attempts < 6; attempts++ {
		preview := rewards.PreviewNextReward(attempts)
		actual := rewards.RewardForAttempt(attempts + 1)
		if preview != actual {
			t.Errorf("PreviewNextReward(%d) = %d, but RewardForAttempt(%d) = %d", attempts, preview, attempts+1, actual)
		}
	}
}
