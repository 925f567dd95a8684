package patternextract

import (
	"strconv"
	"strings"

	"dealflow/pkg/model"
)

type valueKind int

const (
	kindMoney valueKind = iota
	kindPercent
	kindCount
	kindYear
)

var valueKindByMetric = map[string]valueKind{
	"arr": kindMoney, "mrr": kindMoney, "totalRaised": kindMoney,
	"valuation": kindMoney, "tam": kindMoney, "sam": kindMoney,
	"growthRate": kindPercent, "churnRate": kindPercent,
	"customers": kindCount, "nps": kindCount, "teamSize": kindCount,
	"foundersCount": kindCount, "foundedYear": kindYear,
}

// Extractor runs the fixed metric catalog over document text.
type Extractor struct {
	catalog []MetricSpec
}

// NewExtractor builds an Extractor over the default catalog.
func NewExtractor() *Extractor {
	return &Extractor{catalog: Catalog()}
}

// Extract scans text for every catalog metric, returning one entity per
// match with a surrounding context snippet.
func (e *Extractor) Extract(text, sourceDocumentID string) []model.ExtractedEntity {
	var out []model.ExtractedEntity

	for _, spec := range e.catalog {
		matches := spec.Pattern.FindAllStringSubmatchIndex(text, -1)
		for _, loc := range matches {
			groups := submatchStrings(text, loc)
			value, ok := resolveValue(spec.Name, groups)
			if !ok {
				continue
			}
			if floatVal, isFloat := value.(float64); isFloat && spec.Validator != nil && !spec.Validator(floatVal) {
				continue
			}

			start, end := loc[0], loc[1]
			entity := model.ExtractedEntity{
				Type:             spec.Type,
				Name:             spec.Name,
				Value:            value,
				Confidence:       spec.Confidence,
				SourceDocumentID: sourceDocumentID,
				Context:          contextWindow(text, start, end, 40),
				ExtractionMethod: model.EntityMethodPattern,
			}
			if valueKindByMetric[spec.Name] == kindMoney {
				entity.Unit = "USD"
			} else if valueKindByMetric[spec.Name] == kindPercent {
				entity.Unit = "percent"
			}
			out = append(out, entity)
		}
	}
	return out
}

func submatchStrings(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			groups[i/2] = ""
			continue
		}
		groups[i/2] = text[loc[i]:loc[i+1]]
	}
	return groups
}

func resolveValue(metric string, groups []string) (interface{}, bool) {
	switch valueKindByMetric[metric] {
	case kindMoney:
		// money regexes carry one or more alternative (number, unit) group
		// pairs; pick the first populated pair among groups[1:].
		for i := 1; i+1 < len(groups); i += 2 {
			if groups[i] != "" {
				return ParseMoney(groups[i], groups[i+1])
			}
		}
		return nil, false
	case kindPercent, kindCount, kindYear:
		for i := 1; i < len(groups); i++ {
			if groups[i] != "" {
				clean := strings.ReplaceAll(groups[i], ",", "")
				v, err := strconv.ParseFloat(clean, 64)
				if err != nil {
					continue
				}
				return v, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

func contextWindow(text string, start, end, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	return strings.TrimSpace(text[lo:hi])
}
