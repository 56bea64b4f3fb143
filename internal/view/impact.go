package view

// Impact brackets, in kg CO2. Lower bounds are inclusive.
const (
	bikingFromKg = 0.05
	treesFromKg  = 0.2
)

// Equivalency factors.
const (
	// KmBikedPerKg is the distance biked instead of driven per kg CO2 saved.
	KmBikedPerKg = 3.3
	// KgPerTreePlanted is the CO2 attributed to planting one tree.
	KgPerTreePlanted = 0.021
)

// InterpretImpact describes co2Kg in everyday terms.
func InterpretImpact(co2Kg float64) string {
	switch {
	case co2Kg < bikingFromKg:
		return "🟡 Small start! You're helping Earth!"
	case co2Kg < treesFromKg:
		return "🟢 Woohoo! That's like biking for " + formatTenths(co2Kg*KmBikedPerKg) + " km!"
	default:
		return "🌳 Eco Hero! That's like planting " + formatTenths(co2Kg/KgPerTreePlanted) + " trees!"
	}
}
