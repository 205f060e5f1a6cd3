package core

import "strings"

// Category is one of the fixed spending categories.
type Category string

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Bills          Category = "Bills"
	Other          Category = "Other"

	// CategoryAll is the filter sentinel meaning "no category restriction".
	// It is never a valid expense category.
	CategoryAll Category = "All"
)

var categories = []Category{Food, Transportation, Entertainment, Shopping, Bills, Other}

// CategoryInfo carries the presentation attributes of a category.
type CategoryInfo struct {
	Name  Category `json:"name"`
	Color string   `json:"color"`
	Icon  string   `json:"icon"`
}

var categoryInfo = map[Category]CategoryInfo{
	Food:           {Name: Food, Color: "#10b981", Icon: "🍔"},
	Transportation: {Name: Transportation, Color: "#3b82f6", Icon: "🚗"},
	Entertainment:  {Name: Entertainment, Color: "#8b5cf6", Icon: "🎬"},
	Shopping:       {Name: Shopping, Color: "#ec4899", Icon: "🛍️"},
	Bills:          {Name: Bills, Color: "#f59e0b", Icon: "📄"},
	Other:          {Name: Other, Color: "#6b7280", Icon: "📌"},
}

// Categories returns the categories in enumeration order. The order is
// significant: it breaks ties when picking the top category.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryInfos returns presentation attributes in enumeration order.
func CategoryInfos() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryInfo[c])
	}
	return out
}

func (c Category) IsValid() bool {
	_, ok := categoryInfo[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory resolves a name case-insensitively to its canonical category.
// The "All" sentinel is accepted; callers decide whether it is allowed.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}
