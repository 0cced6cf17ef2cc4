package backend

import (
	"context"
	"slices"
)

var languages = []string{
	"English", "German", "French", "Spanish", "Italian", "Chinese", "Japanese", "Russian",
}

var conditions = []string{
	"Mint", "NearMint", "Excellent", "Good", "LightPlayed", "Played", "Poor",
}

func (s *Service) ListLanguages(context.Context) ([]string, error) {
	return slices.Clone(languages), nil
}

func (s *Service) ListConditions(context.Context) ([]string, error) {
	return slices.Clone(conditions), nil
}
