// Package catalog holds the static competency framework: 5 competency
// areas, each with exactly 4 sub-competencies. The catalog is read-only at
// runtime; stored records that reference keys outside it are treated as
// orphaned and filtered out of user-facing views.
package catalog

// Area describes one competency area and its sub-competencies.
type Area struct {
	Key             string            `json:"key"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	SubCompetencies map[string]string `json:"sub_competencies"`
}

var areas = []Area{
	{
		Key:         "leadership_supervision",
		Name:        "Leadership & Supervision",
		Description: "Leading site teams, coaching staff, and running day-to-day supervision.",
		SubCompetencies: map[string]string{
			"inspiring_team_motivation": "Inspiring Team Motivation",
			"delegation_accountability": "Delegation & Accountability",
			"conflict_resolution":       "Conflict Resolution",
			"coaching_development":      "Coaching & Staff Development",
		},
	},
	{
		Key:         "financial_management",
		Name:        "Financial Management",
		Description: "Budgeting, reporting, and controlling property-level financials.",
		SubCompetencies: map[string]string{
			"budget_preparation":  "Budget Preparation",
			"variance_analysis":   "Variance Analysis",
			"rent_collection":     "Rent Collection & Delinquency",
			"financial_reporting": "Financial Reporting",
		},
	},
	{
		Key:         "operational_management",
		Name:        "Operational Management",
		Description: "Maintenance oversight, vendor management, and property operations.",
		SubCompetencies: map[string]string{
			"maintenance_oversight": "Maintenance Oversight",
			"vendor_management":     "Vendor & Contract Management",
			"safety_compliance":     "Safety & Compliance",
			"unit_turnover":         "Unit Turnover Process",
		},
	},
	{
		Key:         "resident_relations",
		Name:        "Resident Relations",
		Description: "Building resident satisfaction, retention, and community engagement.",
		SubCompetencies: map[string]string{
			"customer_service":     "Customer Service Excellence",
			"complaint_handling":   "Complaint Handling",
			"community_engagement": "Community Engagement",
			"retention_strategies": "Retention Strategies",
		},
	},
	{
		Key:         "strategic_thinking",
		Name:        "Strategic Thinking",
		Description: "Market awareness, planning, and long-term asset performance.",
		SubCompetencies: map[string]string{
			"market_analysis":     "Market Analysis",
			"occupancy_planning":  "Occupancy & Leasing Strategy",
			"capital_planning":    "Capital Improvement Planning",
			"performance_metrics": "Performance Metrics & KPIs",
		},
	},
}

var areaIndex = func() map[string]*Area {
	idx := make(map[string]*Area, len(areas))
	for i := range areas {
		idx[areas[i].Key] = &areas[i]
	}
	return idx
}()

// Areas returns the canonical competency areas in display order.
func Areas() []Area {
	return areas
}

// AreaByKey looks up a competency area by its key.
func AreaByKey(key string) (*Area, bool) {
	a, ok := areaIndex[key]
	return a, ok
}

// HasArea reports whether the key names a canonical competency area.
func HasArea(key string) bool {
	_, ok := areaIndex[key]
	return ok
}

// HasLeaf reports whether (area, sub) names a canonical sub-competency.
func HasLeaf(area, sub string) bool {
	a, ok := areaIndex[area]
	if !ok {
		return false
	}
	_, ok = a.SubCompetencies[sub]
	return ok
}

// AreaCount returns the number of configured competency areas.
func AreaCount() int {
	return len(areas)
}
