package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"

	"shopbot/ai"
	"shopbot/repositories"
)

// Config keeps the console client configurable without flags, mirroring how
// the server reads its environment.
type Config struct {
	ModelPath   string  `envconfig:"MODEL_PATH" default:"data/model.json"`
	IntentsPath string  `envconfig:"INTENTS_PATH" default:"data/intents.json"`
	Threshold   float64 `envconfig:"CONFIDENCE_THRESHOLD" default:"0.75"`
	BotName     string  `envconfig:"BOT_NAME" default:"Sam"`
	ShowScores  bool    `envconfig:"SHOW_SCORES" default:"false"`
}

// A local REPL against the loaded model, handy for poking at the classifier
// without running the HTTP server.
func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("config error: ", err)
	}

	logger := logs.GetLoggerFromString("ERROR")

	model, err := repositories.LoadModel(config.ModelPath, logger)
	if err != nil {
		log.Fatal("model loading failed: ", err)
	}
	intents, err := repositories.LoadIntents(config.IntentsPath, model.Tags, logger)
	if err != nil {
		log.Fatal("intents loading failed: ", err)
	}
	classifier, err := ai.NewClassifier(model.Vocabulary, model.Tags, model.Network, intents,
		ai.WithThreshold(config.Threshold))
	if err != nil {
		log.Fatal(err)
	}

	color.Green.Println("Let's chat! (type 'quit' to exit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" {
			break
		}

		prediction, err := classifier.Classify(input)
		if err != nil {
			color.Red.Println("error: ", err)
			continue
		}

		color.Cyan.Printf("%s: ", config.BotName)
		fmt.Println(prediction.Response)
		if config.ShowScores {
			color.Gray.Printf("  [%s %.3f]\n", prediction.Tag, prediction.Confidence)
		}
	}
}
