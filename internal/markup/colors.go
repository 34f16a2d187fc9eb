package markup

const (
	DefaultTextColor  = "text-balatro-default"
	DefaultBackground = "bg-balatro-default"
)

// Class names for the C: and V: colour keys.
var textColors = map[string]string{
	"red":          "text-balatro-red",
	"blue":         "text-balatro-blue",
	"green":        "text-balatro-green",
	"purple":       "text-balatro-purple",
	"white":        "text-balatro-white",
	"black":        "text-balatro-black",
	"grey":         "text-balatro-grey",
	"inactive":     "text-balatro-inactive",
	"attention":    "text-balatro-attention",
	"important":    "text-balatro-attention",
	"orange":       "text-balatro-attention",
	"money":        "text-balatro-money",
	"gold":         "text-balatro-money",
	"yellow":       "text-balatro-money",
	"chips":        "text-balatro-chips",
	"mult":         "text-balatro-mult",
	"tarot":        "text-balatro-tarot",
	"planet":       "text-balatro-planet",
	"spectral":     "text-balatro-spectral",
	"legendary":    "text-balatro-legendary",
	"edition":      "text-balatro-edition",
	"dark_edition": "text-balatro-dark-edition",
	"enhanced":     "text-balatro-enhanced",
	"joker":        "text-balatro-joker",
	"hearts":       "text-balatro-hearts",
	"diamonds":     "text-balatro-diamonds",
	"spades":       "text-balatro-spades",
	"clubs":        "text-balatro-clubs",
	"common":       "text-balatro-common",
	"uncommon":     "text-balatro-uncommon",
	"rare":         "text-balatro-rare",
}

// Class names for the X: and B: background keys.
var backgroundColors = map[string]string{
	"mult":         "bg-balatro-mult",
	"chips":        "bg-balatro-chips",
	"money":        "bg-balatro-money",
	"attention":    "bg-balatro-attention",
	"important":    "bg-balatro-attention",
	"red":          "bg-balatro-red",
	"blue":         "bg-balatro-blue",
	"green":        "bg-balatro-green",
	"purple":       "bg-balatro-purple",
	"black":        "bg-balatro-black",
	"white":        "bg-balatro-white",
	"inactive":     "bg-balatro-inactive",
	"tarot":        "bg-balatro-tarot",
	"planet":       "bg-balatro-planet",
	"spectral":     "bg-balatro-spectral",
	"legendary":    "bg-balatro-legendary",
	"edition":      "bg-balatro-edition",
	"dark_edition": "bg-balatro-dark-edition",
}

// Motion classes for E: keys.
var motions = map[string]string{
	"1": "motion-float",
	"2": "motion-bump",
}

func textColor(key string) string {
	if class, ok := textColors[key]; ok {
		return class
	}
	return DefaultTextColor
}

func backgroundColor(key string) string {
	if class, ok := backgroundColors[key]; ok {
		return class
	}
	return DefaultBackground
}
