package gamification

import "time"

// AchievementType is the closed catalog of unlockables.
type AchievementType string

const (
	PerfectScore AchievementType = "perfect_score"
	PointsBronze AchievementType = "points_bronze"
	PointsSilver AchievementType = "points_silver"
	PointsGold   AchievementType = "points_gold"
	StreakSpark  AchievementType = "streak_spark"
	StreakWeek   AchievementType = "streak_week"
	StreakMonth  AchievementType = "streak_month"
	Marathoner   AchievementType = "marathoner"
)

// Achievement is a catalog row, seeded once and read-only afterward.
// PointsThreshold is zero for non-point-based variants.
type Achievement struct {
	Type            AchievementType `json:"type"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	PointsThreshold int             `json:"points_threshold,omitempty"`
}

// Unlocked joins a learner to an achievement. At most one row per
// (user, achievement type) pair; the storage layer enforces it.
type Unlocked struct {
	UserID   string          `json:"user_id"`
	Type     AchievementType `json:"type"`
	EarnedAt int64           `json:"earned_at"`
}

// Progress is a learner's cumulative progression state. LastActivity carries
// day granularity only (midnight UTC); TotalPoints only ever grows.
type Progress struct {
	UserID       string    `json:"user_id"`
	TotalPoints  int       `json:"total_points"`
	StreakDays   int       `json:"streak_days"`
	LastActivity time.Time `json:"last_activity,omitempty"`
}

// Award amounts and milestones.
const (
	BasePoints   = 10 // every completed exercise
	PerfectBonus = 5  // score of exactly 100

	marathonCount = 50 // completed exercises for Marathoner
)

var pointMilestones = []struct {
	Type      AchievementType
	Threshold int
}{
	{PointsBronze, 100},
	{PointsSilver, 500},
	{PointsGold, 1000},
}

var streakMilestones = []struct {
	Type AchievementType
	Days int
}{
	{StreakSpark, 3},
	{StreakWeek, 7},
	{StreakMonth, 30},
}

// Catalog returns the seedable achievement definitions.
func Catalog() []Achievement {
	return []Achievement{
		{Type: PerfectScore, Name: "Perfectionist", Description: "Score 100% on an exercise"},
		{Type: PointsBronze, Name: "Point Collector", Description: "Earn 100 points", PointsThreshold: 100},
		{Type: PointsSilver, Name: "Point Hoarder", Description: "Earn 500 points", PointsThreshold: 500},
		{Type: PointsGold, Name: "Point Magnate", Description: "Earn 1000 points", PointsThreshold: 1000},
		{Type: StreakSpark, Name: "Warming Up", Description: "Practice 3 days in a row"},
		{Type: StreakWeek, Name: "Full Week", Description: "Practice 7 days in a row"},
		{Type: StreakMonth, Name: "Iron Habit", Description: "Practice 30 days in a row"},
		{Type: Marathoner, Name: "Marathoner", Description: "Complete 50 exercises"},
	}
}
