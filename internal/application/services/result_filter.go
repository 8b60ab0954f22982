package services

import (
	"strings"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
)

// FilterResults applies the active price and location filters to a result
// list. The predicates are AND-combined, order is preserved and the input is
// never mutated. A nil price range, the Any-Price sentinel and an empty
// location string all mean "no filter".
func FilterResults(items []entities.SearchResultItem, priceRange *entities.PriceRange, location string) []entities.SearchResultItem {
	if len(items) == 0 {
		return nil
	}

	filtered := make([]entities.SearchResultItem, 0, len(items))
	for _, item := range items {
		if !priceMatches(item, priceRange) {
			continue
		}
		if !locationMatches(item, location) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func priceMatches(item entities.SearchResultItem, priceRange *entities.PriceRange) bool {
	if priceRange == nil {
		return true
	}
	return priceRange.Contains(item.Price)
}

func locationMatches(item entities.SearchResultItem, location string) bool {
	if location == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Address), strings.ToLower(location))
}
