package items

import (
	"strings"

	"golang.org/x/text/cases"
)

// categoryRules maps title keywords to categories. Order matters: the
// first rule with a matching keyword wins.
var categoryRules = []struct {
	keywords []string
	category Category
}{
	{[]string{"phone", "mobile"}, CategoryPhone},
	{[]string{"wallet", "purse"}, CategoryWallet},
	{[]string{"bag", "backpack"}, CategoryBag},
	{[]string{"id", "passport"}, CategoryID},
	{[]string{"key"}, CategoryKeys},
	{[]string{"jewelry", "watch"}, CategoryJewelry},
	{[]string{"laptop", "tablet"}, CategoryElectronics},
}

var titleFolder = cases.Fold()

// CategoryFromTitle derives a category from an item title by
// case-insensitive keyword search. The heuristic is best-effort and is
// allowed to misclassify; it never fails. Titles matching no rule fall
// into CategoryOther.
func CategoryFromTitle(title string) Category {
	folded := titleFolder.String(title)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(folded, keyword) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
