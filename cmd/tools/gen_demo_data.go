package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"shopbot/ai"
	"shopbot/domain"
	"shopbot/repositories"
)

// Generates a demo intents.json plus a matching model artifact with
// handcrafted weights, so the server and the REPL can run without the
// training pipeline. The weights are not trained: each tag's hidden neuron
// fires when enough of its own pattern stems are present, which is plenty
// for a demo and keeps the artifact fully deterministic.
func main() {
	outputDir := flag.String("out", "./data", "Output directory for intents.json and model.json")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		panic(fmt.Sprintf("cannot create output directory: %v", err))
	}

	intents := demoIntents()

	intentsPath := filepath.Join(*outputDir, "intents.json")
	if err := writeIntents(intentsPath, intents); err != nil {
		panic(err)
	}
	fmt.Println("wrote", intentsPath)

	modelPath := filepath.Join(*outputDir, "model.json")
	if err := writeModel(modelPath, intents); err != nil {
		panic(err)
	}
	fmt.Println("wrote", modelPath)
}

func demoIntents() []domain.Intent {
	return []domain.Intent{
		{
			Tag:       "greeting",
			Patterns:  []string{"Hi", "Hello", "Hey there", "Good day", "Is anyone there"},
			Responses: []string{"Hello! How can I help you today?", "Hi there, what can I do for you?"},
		},
		{
			Tag:       "goodbye",
			Patterns:  []string{"Bye", "See you later", "Goodbye", "Talk to you soon"},
			Responses: []string{"See you later, thanks for visiting!", "Have a nice day!"},
		},
		{
			Tag:       "thanks",
			Patterns:  []string{"Thanks", "Thank you", "That was helpful", "Thanks a lot"},
			Responses: []string{"Happy to help!", "Any time!", "My pleasure."},
		},
		{
			Tag:       "order_status",
			Patterns:  []string{"Where is my order", "Has my order shipped", "Track my package", "When will my order arrive"},
			Responses: []string{"Let me check that for you. Could you give me your order number?"},
		},
		{
			Tag:       "returns",
			Patterns:  []string{"I want to return an item", "How do I get a refund", "Can I exchange this", "Return policy"},
			Responses: []string{"You can return any item within 30 days. Want me to start a return for you?"},
		},
		{
			Tag:       "shipping",
			Patterns:  []string{"Do you ship abroad", "How long does delivery take", "Shipping costs", "Do you deliver on weekends"},
			Responses: []string{"We ship worldwide within 2-4 business days. Shipping is free above 50 euros."},
		},
		{
			Tag:       "payments",
			Patterns:  []string{"What payment methods do you accept", "Can I pay with card", "Do you take paypal", "Is payment secure"},
			Responses: []string{"We accept credit cards, PayPal and bank transfer, all over an encrypted connection."},
		},
	}
}

func writeIntents(path string, intents []domain.Intent) error {
	raw, err := json.MarshalIndent(map[string]any{"intents": intents}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// writeModel derives the vocabulary the same way the training pipeline
// does (stem every pattern word, dedupe, sort) and lays down three layers:
// a pattern-matching layer, an identity hidden layer and an amplifying
// output layer.
func writeModel(path string, intents []domain.Intent) error {
	stemSet := make(map[string]struct{})
	patternStems := make(map[string][]string)
	tags := make([]string, 0, len(intents))
	for _, intent := range intents {
		tags = append(tags, intent.Tag)
		for _, pattern := range intent.Patterns {
			stems := ai.Stems(pattern)
			patternStems[intent.Tag] = append(patternStems[intent.Tag], stems...)
			for _, s := range stems {
				stemSet[s] = struct{}{}
			}
		}
	}
	sort.Strings(tags)

	vocabulary := make([]string, 0, len(stemSet))
	for s := range stemSet {
		vocabulary = append(vocabulary, s)
	}
	sort.Strings(vocabulary)

	index := make(map[string]int, len(vocabulary))
	for i, s := range vocabulary {
		index[s] = i
	}

	// Hidden neuron j fires once roughly one full pattern of tag j is
	// present: stem weights are scaled by the tag's average pattern
	// length, and the bias suppresses single-stem cross talk.
	patternLens := make(map[string][]int)
	for _, intent := range intents {
		for _, pattern := range intent.Patterns {
			patternLens[intent.Tag] = append(patternLens[intent.Tag], len(ai.Stems(pattern)))
		}
	}
	hidden := ai.Layer{
		Weights: make([][]float64, len(tags)),
		Bias:    make([]float64, len(tags)),
	}
	for j, tag := range tags {
		total := 0
		for _, n := range patternLens[tag] {
			total += n
		}
		avgLen := float64(total) / float64(len(patternLens[tag]))

		row := make([]float64, len(vocabulary))
		own := make(map[string]struct{})
		for _, s := range patternStems[tag] {
			own[s] = struct{}{}
		}
		for s := range own {
			row[index[s]] = 6.0 / avgLen
		}
		hidden.Weights[j] = row
		hidden.Bias[j] = -1.0
	}

	identity := ai.Layer{
		Weights: make([][]float64, len(tags)),
		Bias:    make([]float64, len(tags)),
	}
	amplify := ai.Layer{
		Weights: make([][]float64, len(tags)),
		Bias:    make([]float64, len(tags)),
	}
	for j := range tags {
		idRow := make([]float64, len(tags))
		idRow[j] = 1.0
		identity.Weights[j] = idRow

		ampRow := make([]float64, len(tags))
		ampRow[j] = 2.0
		amplify.Weights[j] = ampRow
	}

	return repositories.SaveModel(path, vocabulary, tags, []ai.Layer{hidden, identity, amplify})
}
