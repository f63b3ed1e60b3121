package planka

import "sort"

// labelColors is the palette the kanban server accepts when creating or
// updating a label. It only constrains writes: label reads keep whatever
// color string the server returns, so a server upgrade that grows the
// palette does not break existing boards here.
var labelColors = map[string]struct{}{
	"berry-red":      {},
	"pumpkin-orange": {},
	"lagoon-blue":    {},
	"pink-tulip":     {},
	"light-mud":      {},
	"orange-peel":    {},
	"bright-moss":    {},
	"antique-blue":   {},
	"dark-granite":   {},
	"lagune-blue":    {},
	"sunny-grass":    {},
	"morning-sky":    {},
	"light-orange":   {},
	"midnight-blue":  {},
	"tank-green":     {},
	"gun-metal":      {},
	"wet-moss":       {},
	"red-burgundy":   {},
	"light-concrete": {},
	"apricot-red":    {},
	"desert-sand":    {},
	"navy-blue":      {},
	"egg-yellow":     {},
	"coral-green":    {},
	"light-cocoa":    {},
}

// IsLabelColor reports whether color is in the write palette.
func IsLabelColor(color string) bool {
	_, ok := labelColors[color]
	return ok
}

// LabelColors returns the write palette as a slice, for tool
// descriptions and error messages.
func LabelColors() []string {
	colors := make([]string, 0, len(labelColors))
	for c := range labelColors {
		colors = append(colors, c)
	}
	sort.Strings(colors)
	return colors
}
