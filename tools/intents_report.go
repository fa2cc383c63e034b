package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"shopbot/ai"
	"shopbot/domain"
	"shopbot/repositories"
)

// Classifies every training pattern with the loaded model and prints a
// report table. A pattern that does not map back to its own tag is a strong
// hint the artifact and the intents file are out of sync.
func main() {
	modelPath := flag.String("model", "data/model.json", "Path to the model artifact")
	intentsPath := flag.String("intents", "data/intents.json", "Path to the intents file")
	flag.Parse()

	logger := logs.GetLoggerFromString("ERROR")

	model, err := repositories.LoadModel(*modelPath, logger)
	if err != nil {
		log.Fatal("Error while loading model: ", err)
	}
	intents, err := repositories.LoadIntents(*intentsPath, model.Tags, logger)
	if err != nil {
		log.Fatal("Error while loading intents: ", err)
	}
	classifier, err := ai.NewClassifier(model.Vocabulary, model.Tags, model.Network, intents)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Tag", "Pattern", "Predicted", "Confidence", "OK"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	misses := 0
	for _, intent := range intents.All() {
		for _, pattern := range intent.Patterns {
			prediction, err := classifier.Classify(pattern)
			if err != nil {
				log.Fatal(err)
			}
			ok := "yes"
			if prediction.Tag != domain.Tag(intent.Tag) {
				ok = "NO"
				misses++
			}
			table.Append([]string{
				intent.Tag,
				pattern,
				string(prediction.Tag),
				fmt.Sprintf("%.3f", prediction.Confidence),
				ok,
			})
		}
	}
	table.Render()

	if misses > 0 {
		fmt.Printf("\n%d pattern(s) do not map back to their own tag\n", misses)
		os.Exit(1)
	}
}
