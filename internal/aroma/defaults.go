package aroma

// Source identifiers with built-in label tables.
const (
	SourceYakimaChief  = "yakima"
	SourceBarthHaas    = "barth"
	SourceHopsteiner   = "hopsteiner"
	SourceCrosby       = "crosby"
	SourceYakimaValley = "yakima_valley"
)

// DefaultTables are the built-in supplier vocabularies.
var DefaultTables = []SourceTable{
	{
		ID:          SourceYakimaChief,
		DisplayName: "Yakima Chief Hops",
		Labels: map[string]string{
			"Sweet Aromatic": Floral,
			"Berry":          Berry,
			"Stone fruit":    StoneFruit,
			"Pomme":          StoneFruit,
			"Melon":          TropicalFruit,
			"Tropical":       TropicalFruit,
			"Citrus":         Citrus,
			"Floral":         Floral,
			"Herbal":         Herbal,
			"Vegetal":        Grassy,
			"Grassy":         Grassy,
			"Earthy":         Herbal,
			"Woody":          ResinPine,
			"Spicy":          Spice,
		},
	},
	{
		ID:          SourceBarthHaas,
		DisplayName: "Barth Haas",
		Labels: map[string]string{
			"Citrus":       Citrus,
			"Sweetfruits":  StoneFruit,
			"Greenfruits":  StoneFruit,
			"Redberries":   Berry,
			"Creamcaramel": Floral,
			"Woody":        ResinPine,
			"Menthol":      Herbal,
			"Herbaceous":   Herbal,
			"Spicy":        Spice,
			"Green":        Grassy,
			"Vegetal":      Grassy,
			"Flowery":      Floral,
		},
	},
	{
		ID:          SourceHopsteiner,
		DisplayName: "Hopsteiner",
		Labels: map[string]string{
			"Fruity":     StoneFruit,
			"Floral":     Floral,
			"citrusy":    Citrus,
			"Spicy":      Spice,
			"Herbal":     Herbal,
			"Tropical":   TropicalFruit,
			"Berry":      Berry,
			"Woody":      ResinPine,
			"Grassy":     Grassy,
			"Resinous":   ResinPine,
			"Pine":       ResinPine,
			"sugar like": Floral,
			"Other":      Herbal,
		},
	},
	{
		// Unmapped on purpose: Cheesy/Sweaty, Pungent/Dank, Woody/Tobacco,
		// Catty, Onion/Garlic.
		ID:          SourceCrosby,
		DisplayName: "Crosby Hops",
		Labels: map[string]string{
			"Citrus":         Citrus,
			"Piney/Resinous": ResinPine,
			"Spicy":          Spice,
			"Herbal/Earthy":  Herbal,
			"Grassy":         Grassy,
			"Floral":         Floral,
			"Berry":          Berry,
			"Stone Fruit":    StoneFruit,
			"Tropical/Fruit": TropicalFruit,
		},
	},
	{
		// Notes only; intensities come from DefaultTerms.
		ID:          SourceYakimaValley,
		DisplayName: "Yakima Valley Hops",
	},
}

// DefaultTerms maps tasting-note fragments to categories.
var DefaultTerms = []Term{
	{"lemon", Citrus}, {"lime", Citrus}, {"orange", Citrus}, {"grapefruit", Citrus},
	{"citrus", Citrus}, {"citrusy", Citrus},

	{"berry", Berry}, {"strawberry", Berry}, {"blackberry", Berry}, {"raspberry", Berry},
	{"cranberry", Berry}, {"blueberry", Berry}, {"redberries", Berry},

	{"peach", StoneFruit}, {"apricot", StoneFruit}, {"plum", StoneFruit}, {"apple", StoneFruit},
	{"pear", StoneFruit}, {"stone fruit", StoneFruit},

	{"mango", TropicalFruit}, {"pineapple", TropicalFruit}, {"passion fruit", TropicalFruit},
	{"papaya", TropicalFruit}, {"guava", TropicalFruit}, {"coconut", TropicalFruit},
	{"melon", TropicalFruit}, {"tropical", TropicalFruit},

	{"floral", Floral}, {"flowery", Floral}, {"rose", Floral}, {"lavender", Floral},
	{"jasmine", Floral}, {"sweet", Floral},

	{"herbal", Herbal}, {"herbaceous", Herbal}, {"mint", Herbal}, {"sage", Herbal},
	{"thyme", Herbal}, {"basil", Herbal}, {"tea", Herbal}, {"earthy", Herbal},

	{"grassy", Grassy}, {"green", Grassy}, {"vegetal", Grassy}, {"hay", Grassy}, {"fresh", Grassy},

	{"spice", Spice}, {"spicy", Spice}, {"pepper", Spice}, {"cinnamon", Spice},
	{"clove", Spice}, {"nutmeg", Spice}, {"allspice", Spice},

	{"pine", ResinPine}, {"resin", ResinPine}, {"resinous", ResinPine}, {"woody", ResinPine},
	{"cedar", ResinPine}, {"fir", ResinPine}, {"dank", ResinPine},
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, err := NewTaxonomy(Categories, DefaultTables, DefaultTerms)
	if err != nil {
		panic("aroma: invalid built-in taxonomy: " + err.Error())
	}
	return t
}
