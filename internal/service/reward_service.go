package service

import "math"

// BaseReward is the coin value of a first-attempt correct answer.
const BaseReward = 10

// attemptMultipliers decays the reward per attempt number; the index clamps
// to the last entry beyond its length. Streak is a pure counter and never
// feeds into this multiplier.
var attemptMultipliers = []float64{1.0, 0.66, 0.33}

// RewardService computes coins earned for a correct answer at a given
// attempt number, and the preview shown for the next attempt.
type RewardService interface {
	RewardForAttempt(attemptNumber int) int
	// PreviewNextReward returns the coins the engine would grant if the
	// attempt after attemptNumber is submitted and correct. Never mutates
	// state.
	PreviewNextReward(attemptNumber int) int
}

type rewardService struct{}

func NewRewardService() RewardService {
	return &rewardService{}
}

func (s *rewardService) RewardForAttempt(attemptNumber int) int {
	if attemptNumber < 1 {
		attemptNumber = 1
	}
	idx := attemptNumber - 1
	if idx >= len(attemptMultipliers) {
		idx = len(attemptMultipliers) - 1
	}
	return int(math.Round(BaseReward * attemptMultipliers[idx]))
}

func (s *rewardService) PreviewNextReward(attemptNumber int) int {
	return s.RewardForAttempt(attemptNumber + 1)
}
