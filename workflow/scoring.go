package workflow

import (
	"time"

	"github.com/ayos-surigao/ayos-api/models"
)

// Score weights. Urgency dominates: a fresh critical report (70) always
// outranks any same-category lower-urgency report even at the maximum age
// bonus (50 + 10). Category adds a fixed public-safety sensitivity weight,
// and age adds a slow bounded climb so old low-urgency reports eventually
// surface in the queue.
var urgencyWeights = map[models.ReportUrgency]int{
	models.UrgencyLow:      10,
	models.UrgencyMedium:   30,
	models.UrgencyHigh:     50,
	models.UrgencyCritical: 70,
}

var categoryWeights = map[models.ReportCategory]int{
	models.CategoryPublicSafety:      20,
	models.CategoryElectricalHazard:  18,
	models.CategoryDrainageFlooding:  15,
	models.CategoryWaterSupply:       14,
	models.CategoryRoadDamage:        12,
	models.CategoryBrokenStreetlight: 10,
	models.CategoryGarbageCollection: 6,
	models.CategoryVandalism:         5,
	models.CategoryStrayAnimals:      4,
	models.CategoryOther:             3,
}

const (
	minUrgencyWeight  = 10
	minCategoryWeight = 3
	maxAgeBonus       = 10
	ageBonusStepDays  = 3
)

// Score derives the priority score for a report: an integer in [0,100],
// a pure function of category, urgency and age. Unrecognized category or
// urgency values fall back to the lowest-weight bucket so a malformed
// report degrades in the queue instead of breaking it.
func Score(category models.ReportCategory, urgency models.ReportUrgency, createdAt, now time.Time) int {
	uw, ok := urgencyWeights[urgency]
	if !ok {
		uw = minUrgencyWeight
	}
	cw, ok := categoryWeights[category]
	if !ok {
		cw = minCategoryWeight
	}

	age := now.Sub(createdAt)
	bonus := 0
	if age > 0 {
		bonus = int(age.Hours()) / 24 / ageBonusStepDays
		if bonus > maxAgeBonus {
			bonus = maxAgeBonus
		}
	}

	score := uw + cw + bonus
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
