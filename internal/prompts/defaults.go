package prompts

// DefaultPrefix opens every generated prompt.
const DefaultPrefix = "a photo of "

// DefaultStages lists the life-cycle stages prefixed to labels.
func DefaultStages() []string {
	return []string{"adult", "larva", "pupa", "egg"}
}

// DefaultLabels lists the farm-insect dataset classes.
func DefaultLabels() []string {
	return []string{
		"Western Corn Rootworms",
		"Citrus Canker",
		"Fruit Flies",
		"Africanized Honey Bees (Killer Bees)",
		"Aphids",
		"Colorado Potato Beetles",
		"Thrips",
		"Corn Earworms",
		"Fall Armyworms",
		"Corn Borers",
		"Cabbage Loopers",
		"Brown Marmorated Stink Bugs",
		"Spider Mites",
		"Tomato Hornworms",
		"Armyworms",
	}
}

// DefaultExceptions lists labels that are not insects and so take no stage.
func DefaultExceptions() []string {
	return []string{"Citrus Canker"}
}
