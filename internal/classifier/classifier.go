// internal/classifier/classifier.go
package classifier

import (
	"fmt"
	"os"
	"strings"

	"cardmax/internal/domain"

	"github.com/goccy/go-yaml"
)

// Vocabulary — ключевые слова по категориям.
type Vocabulary map[domain.Category][]string

// Default — встроенный словарь. Файл configs/categories.yaml может его
// переопределять без пересборки.
func Default() Vocabulary {
	return Vocabulary{
		domain.CategoryDining: {
			"restaurant", "cafe", "coffee", "dinner", "lunch", "breakfast",
			"pizza", "sushi", "burger", "bakery", "eats", "doordash",
			"grubhub", "food delivery", "bistro", "diner",
		},
		domain.CategoryTravel: {
			"hotel", "flight", "airline", "airbnb", "airport", "taxi",
			"uber", "lyft", "train", "cruise", "rental car", "motel",
		},
		domain.CategoryGroceries: {
			"grocery", "groceries", "supermarket", "walmart", "costco",
			"trader joe", "whole foods", "safeway", "aldi", "kroger",
		},
		domain.CategoryGas: {
			"gas", "fuel", "petrol", "shell", "chevron", "exxon", "bp ",
			"texaco", "charging station",
		},
		domain.CategoryEntertainment: {
			"movie", "theater", "theatre", "cinema", "concert", "netflix",
			"spotify", "hulu", "tickets", "museum", "arcade", "stadium",
		},
		domain.CategoryOnlineShopping: {
			"amazon", "online", "ebay", "etsy", "aliexpress", "shopify",
			"web order", "e-commerce",
		},
	}
}

// Classifier сопоставляет описанию покупки ровно одну категорию.
// Это эвристика: первое совпадение выигрывает, порядок категорий
// фиксирован порядком объявления domain.Categories. Без совпадений —
// всегда "other", ошибок не бывает.
type Classifier struct {
	vocab Vocabulary
}

func New(vocab Vocabulary) *Classifier {
	if vocab == nil {
		vocab = Default()
	}
	return &Classifier{vocab: vocab}
}

// Classify возвращает категорию для описания и (опционально) мерчанта.
func (c *Classifier) Classify(description, merchant string) domain.Category {
	category, _ := c.Match(description, merchant)
	return category
}

// Match дополнительно сообщает, сработало ли хоть одно ключевое слово,
// или категория выставлена по фолбэку.
func (c *Classifier) Match(description, merchant string) (domain.Category, bool) {
	haystack := strings.ToLower(description + " " + merchant)
	for _, category := range domain.Categories {
		for _, keyword := range c.vocab[category] {
			if strings.Contains(haystack, keyword) {
				return category, true
			}
		}
	}
	return domain.CategoryOther, false
}

// --- загрузка словаря из YAML ---

type vocabularyFile struct {
	Categories []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

// LoadFile читает словарь из YAML-файла. Категории из файла заменяют
// встроенные наборы, не перечисленные остаются дефолтными.
func LoadFile(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse vocabulary file: %w", err)
	}

	vocab := Default()
	for _, entry := range file.Categories {
		category := domain.Category(entry.Name)
		if !category.Valid() {
			return nil, fmt.Errorf("unknown category %q in %s", entry.Name, path)
		}
		keywords := make([]string, 0, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		vocab[category] = keywords
	}
	return vocab, nil
}
