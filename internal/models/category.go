// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Category is the fixed review category a post belongs to.
type Category string

// CategoryInfo pairs a category value with its display label.
type CategoryInfo struct {
	Value Category `yaml:"value" json:"value"`
	Label string   `yaml:"label" json:"label"`
}

//go:embed categories.yaml
var categoriesYAML []byte

var (
	categoriesOnce sync.Once
	categoryList   []CategoryInfo
	categorySet    map[Category]struct{}
)

func loadCategories() {
	var doc struct {
		Categories []CategoryInfo `yaml:"categories"`
	}
	if err := yaml.Unmarshal(categoriesYAML, &doc); err != nil {
		panic(fmt.Sprintf("models: parse embedded categories: %v", err))
	}
	categoryList = doc.Categories
	categorySet = make(map[Category]struct{}, len(doc.Categories))
	for _, c := range doc.Categories {
		categorySet[c.Value] = struct{}{}
	}
}

// Categories returns the fixed category list in display order.
func Categories() []CategoryInfo {
	categoriesOnce.Do(loadCategories)
	out := make([]CategoryInfo, len(categoryList))
	copy(out, categoryList)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	categoriesOnce.Do(loadCategories)
	_, ok := categorySet[c]
	return ok
}

// ParseCategory normalizes and validates a raw category value.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" {
		return "", fmt.Errorf("category is required")
	}
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}
