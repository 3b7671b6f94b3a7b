// Package dashboard ties the two project tables to the grid and storage
// layers: fixed column mappings, load-time normalization, the save-time
// business rule, and the derived summary views.
package dashboard

import (
	"strings"

	"github.com/ruslano69/sitedesk/internal/grid"
)

// Storage-side table names. "Contrcution" is an upstream misspelling the
// production database already carries; it must match exactly.
const (
	TimelineTable = "Contrcution_Timeline"
	ItemsTable    = "Items_Order"
)

// Display column names the business rule and reports key on.
const (
	StatusColumn   = "Status"
	ProgressColumn = "Progress"
)

// Fixed option lists for the enumerated columns.
var (
	TimelineStatuses = []string{"Finished", "In Progress", "Not Started", "Delayed"}
	OrderStatuses    = []string{"Ordered", "Not Ordered"}
	DeliveryStatuses = []string{"Delivered", "Not Delivered", "Delayed"}
)

// StatusDefault is substituted for any null or invalid timeline status.
const StatusDefault = "Not Started"

// ColumnMapping pairs a stored snake_case name with its display label.
type ColumnMapping struct {
	Storage string
	Display string
}

// TableSpec declares one managed table: where it lives, how stored
// columns map to display labels, and the per-column kind/constraint
// metadata the editor renders from. Declared, not inferred.
type TableSpec struct {
	Slug        string // URL segment: "timeline", "items"
	Title       string
	StorageName string
	Mapping     []ColumnMapping
	Columns     []grid.Column
}

// Timeline is the main construction task timeline.
var Timeline = TableSpec{
	Slug:        "timeline",
	Title:       "Main Timeline",
	StorageName: TimelineTable,
	Mapping: []ColumnMapping{
		{"activity", "Activity"},
		{"item", "Item"},
		{"task", "Task"},
		{"room", "Room"},
		{"location", "Location"},
		{"notes", "Notes"},
		{"start_date", "Start Date"},
		{"end_date", "End Date"},
		{"status", "Status"},
		{"workdays", "Workdays"},
		{"progress", "Progress"},
	},
	Columns: []grid.Column{
		{Name: "Activity", Kind: grid.KindText},
		{Name: "Item", Kind: grid.KindText},
		{Name: "Task", Kind: grid.KindText},
		{Name: "Room", Kind: grid.KindText},
		{Name: "Location", Kind: grid.KindText},
		{Name: "Notes", Kind: grid.KindText},
		{Name: "Start Date", Kind: grid.KindDate},
		{Name: "End Date", Kind: grid.KindDate},
		{Name: "Status", Kind: grid.KindText, Options: TimelineStatuses},
		{Name: "Workdays", Kind: grid.KindFloat, Min: 0, Step: 1},
		{Name: "Progress", Kind: grid.KindInt, Min: 0, Max: 100, Step: 1},
	},
}

// Items is the materials/equipment order list.
var Items = TableSpec{
	Slug:        "items",
	Title:       "Items to Order",
	StorageName: ItemsTable,
	Mapping: []ColumnMapping{
		{"item", "Item"},
		{"quantity", "Quantity"},
		{"order_status", "Order Status"},
		{"delivery_status", "Delivery Status"},
		{"notes", "Notes"},
	},
	Columns: []grid.Column{
		{Name: "Item", Kind: grid.KindText},
		{Name: "Quantity", Kind: grid.KindInt, Min: 0, Step: 1},
		{Name: "Order Status", Kind: grid.KindText, Options: OrderStatuses},
		{Name: "Delivery Status", Kind: grid.KindText, Options: DeliveryStatuses},
		{Name: "Notes", Kind: grid.KindText},
	},
}

// Specs returns both managed tables in display order.
func Specs() []TableSpec {
	return []TableSpec{Timeline, Items}
}

// BySlug resolves a URL segment to its table spec.
func BySlug(slug string) (TableSpec, bool) {
	for _, spec := range Specs() {
		if spec.Slug == slug {
			return spec, true
		}
	}
	return TableSpec{}, false
}

// DisplayFor maps a stored column name (whitespace already trimmed by the
// driver) to its display label. Unmapped columns — user-added ones — get
// their underscores title-cased.
func (t TableSpec) DisplayFor(storageName string) string {
	name := strings.TrimSpace(storageName)
	for _, m := range t.Mapping {
		if m.Storage == name {
			return m.Display
		}
	}
	return titleize(name)
}

// StorageFor maps a display label back to the stored snake_case name.
// User-added columns are snake-cased so the storage side never grows
// spaced or mixed-case identifiers.
func (t TableSpec) StorageFor(display string) string {
	for _, m := range t.Mapping {
		if m.Display == display {
			return m.Storage
		}
	}
	return snakecase(display)
}

// DeclaredColumn returns the per-column editor configuration for a
// display label, if the spec declares one.
func (t TableSpec) DeclaredColumn(display string) (grid.Column, bool) {
	for _, c := range t.Columns {
		if c.Name == display {
			return c, true
		}
	}
	return grid.Column{}, false
}

func titleize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func snakecase(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(name)), "_"))
}
