package feature

type Category string

func (c Category) String() string {
	return string(c)
}

// CategorizedPoint is a point together with the category it should be inserted under.
type CategorizedPoint struct {
	Point    Point
	Category Category
}

// UniqueCategories returns the given categories without duplicates. The order of the first occurrence is kept.
func UniqueCategories(categories []Category) []Category {
	seen := map[Category]bool{}
	var result []Category
	for _, c := range categories {
		if seen[c] {
			continue
		}
		seen[c] = true
		result = append(result, c)
	}
	return result
}

// CategoriesOf returns all categories of the given points in the order of their first occurrence.
func CategoriesOf(points []CategorizedPoint) []Category {
	categories := make([]Category, len(points))
	for i, p := range points {
		categories[i] = p.Category
	}
	return UniqueCategories(categories)
}
