package embeddings

import (
	"strconv"
	"strings"

	"perfumeprj/internal/model"
)

// ProductToText renders a perfume for embedding. The name goes first since it
// carries the most signal; links and ids are left out.
func ProductToText(p *model.Product) string {
	var sb strings.Builder

	sb.WriteString(p.Name + "\n")
	if p.Brand != "" {
		sb.WriteString("Brand: " + p.Brand + "\n")
	}
	if p.Category != "" {
		sb.WriteString("Type: " + p.Category + "\n")
	}
	sb.WriteString("\n")

	if p.Description != "" {
		sb.WriteString(strings.TrimSpace(p.Description) + "\n\n")
	}

	writeList(&sb, "Notes", p.Notes)
	writeList(&sb, "Season", p.Season)
	writeList(&sb, "Occasion", p.Occasion)
	writeRating(&sb, "Longevity", p.Longevity)
	writeRating(&sb, "Sillage", p.Sillage)
	writeRating(&sb, "Projection", p.Projection)

	if p.Price.Valid {
		sb.WriteString("Price: " + p.Price.Decimal.StringFixed(2) + " " + p.Currency + "\n")
	}
	if !p.IsAvailable {
		sb.WriteString("Currently unavailable\n")
	}
	return sb.String()
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ": " + strings.Join(items, ", ") + "\n")
}

func writeRating(sb *strings.Builder, label string, v *int) {
	if v == nil {
		return
	}
	sb.WriteString(label + ": " + strconv.Itoa(*v) + "/5\n")
}
