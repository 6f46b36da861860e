package service

import (
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
	"github.com/dustin/go-humanize"
)

const shortModelLen = 30

// FormatPrice renders 129990 as "129 990 руб.".
func FormatPrice(v int64) string {
	return strings.ReplaceAll(humanize.Comma(v), ",", " ") + " руб."
}

func ShortModel(model string) string {
	if utf8.RuneCountInString(model) <= shortModelLen {
		return model
	}
	return string([]rune(model)[:shortModelLen]) + "..."
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func variantsOrCurrent(rows []string, current string) []string {
	out := dedupe(rows)
	if len(out) == 0 && current != "" {
		out = append(out, current)
	}
	return out
}

func toView(p models.Product, colors, memory []string) transport.ProductView {
	return transport.ProductView{
		Product:        p,
		FormattedPrice: FormatPrice(p.Price),
		ShortModel:     ShortModel(p.Model),
		Colors:         variantsOrCurrent(colors, p.CurrentColor),
		Memory:         variantsOrCurrent(memory, p.CurrentMemory),
	}
}
