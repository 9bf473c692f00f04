package parse

// BuildDocumentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. The audit payload must validate against it before commit;
// the to-column pattern is what holds the sentinel round-trip together.
func BuildDocumentJSONSchema() map[string]any {
	interval := map[string]any{
		"from": datePattern(),
		"to":   dateOrSentinelPattern(),
	}

	namedFacts := func(extra map[string]any, required ...string) map[string]any {
		props := map[string]any{}
		for k, v := range interval {
			props[k] = v
		}
		for k, v := range extra {
			props[k] = v
		}
		return map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           props,
				"required":             append([]string{"to"}, required...),
			},
		}
	}

	staticNames := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"name": map[string]any{"type": "string", "minLength": 1},
				"from": datePattern(),
			},
			"required": []string{"name"},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"abn":           map[string]any{"type": "string", "pattern": `^\d{11}$`},
			"document_type": map[string]any{"type": "string", "enum": []string{"CURRENT", "HISTORICAL"}},
			"entity": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"entity_name":           map[string]any{"type": "string", "minLength": 1},
					"entity_type":           map[string]any{"type": "string"},
					"first_active_date":     datePattern(),
					"record_extracted_date": datePattern(),
					"abn_last_updated":      datePattern(),
				},
				"required": []string{"entity_name"},
			},
			"name_history":     namedFacts(map[string]any{"entity_name": map[string]any{"type": "string", "minLength": 1}}, "entity_name"),
			"status_history":   namedFacts(map[string]any{"status": map[string]any{"type": "string", "minLength": 1}}, "status"),
			"gst_history":      namedFacts(map[string]any{"status": map[string]any{"type": "string", "minLength": 1}}, "status"),
			"location_history": namedFacts(map[string]any{"state": map[string]any{"type": "string", "pattern": `^[A-Z]{2,3}$`}, "postcode": map[string]any{"type": "string", "pattern": `^\d{4}$`}}, "state", "postcode"),
			"business_names":   staticNames,
			"trading_names":    staticNames,
			"asic_registrations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"type":   map[string]any{"type": "string", "pattern": `^[A-Z]{3}$`},
						"number": map[string]any{"type": "string", "pattern": `^\d+$`},
					},
					"required": []string{"type", "number"},
				},
			},
		},
		"required": []string{"abn", "document_type", "entity", "name_history", "status_history", "gst_history", "location_history"},
	}
}

func datePattern() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d{2} [A-Z][a-z]{2} \d{4}$`}
}

func dateOrSentinelPattern() map[string]any {
	return map[string]any{"type": "string", "pattern": `^(\(current\)|\d{2} [A-Z][a-z]{2} \d{4})$`}
}
