package main

import "math/rand"

// Category names a word list. Every round uses exactly one category.
type Category string

const (
	CategoryAnimals Category = "animals"
	CategoryObjects Category = "objects"
)

var wordLists = map[Category][]string{
	CategoryAnimals: {
		"Elephant", "Penguin", "Dolphin", "Tiger", "Kangaroo",
		"Bear", "Fox", "Owl", "Shark", "Parrot",
		"Zebra", "Giraffe", "Panda", "Koala", "Leopard",
	},
	CategoryObjects: {
		"Piano", "Umbrella", "Compass", "Telescope", "Suitcase",
		"Flashlight", "Microphone", "Camera", "Bicycle", "Skateboard",
		"Trampoline", "Matchbox", "Hammer", "Toaster",
	},
}

// pickWord selects a category uniformly at random, then a word uniformly
// at random from that category's list.
func pickWord(rng *rand.Rand) (Category, string) {
	category := CategoryAnimals
	if rng.Intn(2) == 1 {
		category = CategoryObjects
	}

	list := wordLists[category]

	return category, list[rng.Intn(len(list))]
}
