package services

// keywordGroup maps one category to its literal search phrases. Table order
// is significant twice over: categories are scanned top to bottom, and the
// first phrase of a category that occurs in the text wins the category.
type keywordGroup struct {
	Category string
	Phrases  []string
}

// riskKeywords are scanned against the combined title + description text.
// Phrases are lowercase literal substrings, not patterns.
var riskKeywords = []keywordGroup{
	{"bathroom", []string{"old bathroom", "dated bathroom", "renovation needed", "moisture damage", "mold", "rot", "leak", "worn bathroom"}},
	{"kitchen", []string{"old kitchen", "dated kitchen", "worn kitchen", "renovation needed"}},
	{"roof", []string{"roof leak", "old roof", "dated roof", "roof tiles", "roof panels", "roof covering"}},
	{"moisture", []string{"moisture damage", "moisture problems", "mold", "rot", "leak", "water intrusion", "condensation"}},
	{"electrical", []string{"old electrical system", "dated electrical", "fuse box", "earth fault", "power fault"}},
	{"drainage", []string{"poor drainage", "moisture in basement", "water intrusion", "damp basement"}},
	{"ventilation", []string{"poor ventilation", "missing ventilation", "condensation", "moisture problems"}},
	{"insulation", []string{"poorly insulated", "cold dwelling", "draft", "energy leakage", "high energy consumption"}},
	{"pests", []string{"pests", "mice", "rats", "insects", "ants", "silverfish"}},
	{"radon", []string{"radon", "radon measurement", "radiation"}},
	{"noise", []string{"noise", "traffic noise", "noise nuisance", "sound problems"}},
	{"subsidence", []string{"subsidence damage", "cracks", "skewness", "settlements"}},
	{"asbestos", []string{"asbestos", "eternit", "asbestos panels"}},
	{"mold", []string{"fungus", "mold growth", "rot fungus", "dry rot"}},
	{"pcb", []string{"pcb", "environmental toxins", "toxic substances"}},
	{"chimney", []string{"chimney", "flue", "fireplace"}},
	{"foundation", []string{"foundation", "foundation wall", "settlements", "cracks"}},
	{"windows", []string{"old windows", "dated windows", "drafty windows", "failed window seals"}},
	{"parking", []string{"parking", "garage", "parking space"}},
	{"shared_debt", []string{"shared debt", "high shared debt", "shared costs", "housing cooperative"}},
}

// highlightKeywords are scanned against the same text, and again against
// each amenity string.
var highlightKeywords = []keywordGroup{
	{"location", []string{"central", "centrally", "close to", "view", "sea view", "fjord view", "mountain", "sunny"}},
	{"standard", []string{"high standard", "good standard", "modern", "newly renovated", "upgraded", "renovated"}},
	{"outdoor_area", []string{"garden", "terrace", "balcony", "patio", "roof terrace", "veranda", "porch"}},
	{"parking", []string{"garage", "carport", "parking space", "parking"}},
	{"kitchen", []string{"new kitchen", "modern kitchen", "integrated appliances", "kitchen island", "great kitchen"}},
	{"bathroom", []string{"new bathroom", "modern bathroom", "tiled bathroom", "heating cables", "underfloor heating", "great bathroom"}},
	{"energy", []string{"energy efficient", "heat pump", "geothermal heating", "solar panels", "low energy consumption"}},
	{"ceiling_height", []string{"good ceiling height", "high ceilings", "airy", "sense of space"}},
	{"layout", []string{"good layout", "open layout", "functional", "practical", "dual aspect"}},
	{"heating", []string{"fireplace", "wood stove", "hearth", "underfloor heating", "heating cables"}},
	{"facilities", []string{"elevator", "gym", "common room", "guest room", "roof terrace", "shared roof terrace"}},
	{"storage", []string{"storage room", "storage space", "basement storage", "attic storage", "sports storage"}},
	{"recreation", []string{"hiking area", "hiking trails", "outdoor recreation", "forest", "sea", "beach"}},
	{"transit", []string{"public transport", "bus", "tram", "metro", "train"}},
	{"school", []string{"school", "kindergarten", "school district", "close to school", "primary school"}},
	{"shopping", []string{"shops", "shopping", "shopping centre", "groceries"}},
	{"new_build", []string{"new build", "newly built", "new home", "newer home"}},
	{"rental", []string{"rental unit", "rental potential", "separate entrance", "rental apartment", "bedsit"}},
	{"internet", []string{"fiber", "broadband", "internet", "high-speed internet"}},
	{"ev_charging", []string{"ev charger", "charging option", "charging station", "electric car"}},
}

// escalationWords force high severity when present in a match's context
// window, regardless of category.
var escalationWords = []string{
	"extensive", "serious", "major", "significant", "critical", "immediate", "dangerous",
}

// highSeverityCategories carry high severity on their own.
var highSeverityCategories = map[string]struct{}{
	"moisture":   {},
	"mold":       {},
	"asbestos":   {},
	"pcb":        {},
	"radon":      {},
	"subsidence": {},
	"foundation": {},
}

// mediumSeverityCategories carry medium severity; everything else is low.
var mediumSeverityCategories = map[string]struct{}{
	"bathroom":    {},
	"roof":        {},
	"electrical":  {},
	"drainage":    {},
	"chimney":     {},
	"ventilation": {},
}
