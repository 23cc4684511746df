package catalog

import "strconv"

// PRODUCT CATALOG
//
// Static list of purchasable items, loaded once at startup.
// Apps and websites carry a demo link, promotion plans carry
// a customer-reach target instead.

type Item struct {
	Name   string
	Price  int // ৳
	Link   string
	Target string
}

type Category struct {
	Key   string
	Title string
	Items []Item
}

const (
	KeyApp     = "app"
	KeyWebsite = "website"
	KeyPromote = "promote"
)

var categories = map[string]Category{
	KeyApp: {
		Key:   KeyApp,
		Title: "📱 Choose your App:",
		Items: []Item{
			{Name: "APP-1", Price: 2500, Link: "yourapplink.com"},
			{Name: "APP-2", Price: 3500, Link: "yourapplink.com"},
			{Name: "APP-3", Price: 5000, Link: "yourapplink.com"},
			{Name: "APP-4", Price: 7000, Link: "yourapplink.com"},
		},
	},
	KeyWebsite: {
		Key:   KeyWebsite,
		Title: "🌐 Choose your Website:",
		Items: []Item{
			{Name: "WEBSITE-1", Price: 3500, Link: "yourweblink.com"},
			{Name: "WEBSITE-2", Price: 4800, Link: "yourweblink.com"},
			{Name: "WEBSITE-3", Price: 5900, Link: "yourweblink.com"},
		},
	},
	KeyPromote: {
		Key:   KeyPromote,
		Title: "🚀 Choose Promotion Plan:",
		Items: []Item{
			{Name: "PROMOT-1", Price: 700, Target: "500 Customers"},
			{Name: "PROMOT-2", Price: 1300, Target: "1000 Customers"},
			{Name: "PROMOT-3", Price: 1800, Target: "1500 Customers"},
		},
	},
}

// Get returns the category registered under key.
func Get(key string) (Category, bool) {
	c, ok := categories[key]
	return c, ok
}

// Find matches input against an item's exact name or its price rendered
// as a decimal string. No fuzzy matching.
func (c Category) Find(input string) (Item, bool) {
	for _, item := range c.Items {
		if input == item.Name || input == strconv.Itoa(item.Price) {
			return item, true
		}
	}
	return Item{}, false
}

// Detail is the human-readable middle column of a catalog line:
// the demo link for apps and websites, the reach target for promotions.
func (i Item) Detail() string {
	if i.Target != "" {
		return i.Target
	}
	return i.Link
}
