package factory

import (
	"fmt"

	"myjourney-be/pkg/narrative"
	"myjourney-be/pkg/narrative/mistral"
	"myjourney-be/pkg/narrative/ollama"
)

func NewProvider(providerType, modelName, mistralKey, mistralBaseURL, ollamaBaseURL string) (narrative.Provider, error) {
	switch providerType {
	case "mistral":
		return mistral.NewMistralProvider(mistralKey, mistralBaseURL, modelName)
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported narrative provider: %s", providerType)
	}
}
