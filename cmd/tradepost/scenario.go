package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tradepost.dev/internal/currency"
	"tradepost.dev/internal/trade"
)

// scenario is a self-contained trading fixture: two actors with holdings plus
// the offers each side puts on the table.
type scenario struct {
	Player scenarioActor `yaml:"player"`
	Shop   scenarioActor `yaml:"shop"`
	Offer  scenarioOffer `yaml:"offer"`
}

type scenarioActor struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Currency map[string]int `yaml:"currency"`
	Items    []scenarioItem `yaml:"items"`
}

type scenarioItem struct {
	ID       string        `yaml:"id"`
	SourceID string        `yaml:"source_id"`
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"`
	Quantity int           `yaml:"quantity"`
	Price    scenarioPrice `yaml:"price"`
}

type scenarioPrice struct {
	Value        float64 `yaml:"value"`
	Denomination string  `yaml:"denomination"`
}

type scenarioOffer struct {
	Player scenarioBasket `yaml:"player"`
	Shop   scenarioBasket `yaml:"shop"`
}

type scenarioBasket struct {
	Currency map[string]int      `yaml:"currency"`
	Items    []scenarioOfferItem `yaml:"items"`
}

type scenarioOfferItem struct {
	ID       string `yaml:"id"`
	Quantity int    `yaml:"quantity"`
}

func loadScenario(path string) (scenario, error) {
	var sc scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return sc, fmt.Errorf("scenario: %w", err)
	}
	if sc.Player.ID == "" || sc.Shop.ID == "" {
		return sc, fmt.Errorf("scenario: player and shop ids are required")
	}
	return sc, nil
}

func bundleOf(m map[string]int) currency.Bundle {
	b := currency.New()
	for k, v := range m {
		b[currency.Denomination(k)] = v
	}
	return currency.Canon(b)
}

func (it scenarioItem) ref() trade.ItemRef {
	return trade.ItemRef{
		ID:       it.ID,
		SourceID: it.SourceID,
		Name:     it.Name,
		Type:     it.Type,
		Quantity: it.Quantity,
		Price: trade.Price{
			Value:        it.Price.Value,
			Denomination: currency.Denomination(it.Price.Denomination),
		},
	}
}
