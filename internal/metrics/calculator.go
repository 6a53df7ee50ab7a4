package metrics

import (
	"math"

	"github.com/fdg312/vitalis/internal/daily"
	"github.com/fdg312/vitalis/internal/profile"
)

type BMIClass string

const (
	BMIUnderweight BMIClass = "Underweight"
	BMINormal      BMIClass = "Normal"
	BMIOverweight  BMIClass = "Overweight"
	BMIObese       BMIClass = "Obese"
)

const (
	activityMultiplier = 1.2
	dailyDeficitKcal   = 500
	minRecommendedKcal = 1200
)

// BMI returns weight / (height in m)^2 rounded to one decimal, or 0 when height is not positive.
func BMI(weightKg, heightCm float64) float64 {
	h := heightCm / 100
	if h <= 0 {
		return 0
	}
	return round1(weightKg / (h * h))
}

// ClassifyBMI: each band includes its lower bound.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// BMR — Mifflin-St Jeor. Anything other than male uses the female constant.
func BMR(p profile.Profile) float64 {
	base := 10*p.CurrentWeight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == profile.GenderMale {
		return base + 5
	}
	return base - 161
}

// RecommendedCalories = max(1200, round(BMR*1.2) - 500).
func RecommendedCalories(p profile.Profile) int {
	maintenance := int(math.Round(BMR(p) * activityMultiplier))
	return max(minRecommendedKcal, maintenance-dailyDeficitKcal)
}

// NetCalories never goes below zero.
func NetCalories(consumed, burned int) int {
	return max(0, consumed-burned)
}

// ProgressPercent returns value/goal as a percentage clamped to [0, 100].
// A non-positive goal yields 0.
func ProgressPercent(value, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return clamp(float64(value)/float64(goal)*100, 0, 100)
}

// WeightRemaining is the absolute distance to the target, one decimal.
func WeightRemaining(current, target float64) float64 {
	return round1(math.Abs(current - target))
}

// WeightGoalProgress = target/current as a percentage clamped to [5, 100].
func WeightGoalProgress(current, target float64) float64 {
	if current <= 0 {
		return 5
	}
	return clamp(target/current*100, 5, 100)
}

// Summary — производные показатели для дашборда. Всегда пересчитываются из профиля и статистики.
type Summary struct {
	BMI                 float64  `json:"bmi"`
	BMIClass            BMIClass `json:"bmiClass"`
	BMR                 float64  `json:"bmr"`
	RecommendedCalories int      `json:"recommendedCalories"`
	NetCalories         int      `json:"netCalories"`
	StepsProgress       float64  `json:"stepsProgress"`
	WaterProgress       float64  `json:"waterProgress"`
	CaloriesProgress    float64  `json:"caloriesProgress"`
	WeightRemaining     float64  `json:"weightRemaining"`
	WeightGoalProgress  float64  `json:"weightGoalProgress"`
}

func Compute(p profile.Profile, s daily.Stats) Summary {
	bmi := BMI(p.CurrentWeight, p.Height)
	net := NetCalories(s.CaloriesConsumed, s.CaloriesBurned)
	return Summary{
		BMI:                 bmi,
		BMIClass:            ClassifyBMI(bmi),
		BMR:                 BMR(p),
		RecommendedCalories: RecommendedCalories(p),
		NetCalories:         net,
		StepsProgress:       ProgressPercent(s.Steps, p.StepGoal),
		WaterProgress:       ProgressPercent(s.Water, p.WaterGoal),
		CaloriesProgress:    ProgressPercent(net, p.CalorieGoal),
		WeightRemaining:     WeightRemaining(p.CurrentWeight, p.TargetWeight),
		WeightGoalProgress:  WeightGoalProgress(p.CurrentWeight, p.TargetWeight),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
