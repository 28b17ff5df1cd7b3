package event

// Operator phrase tables. The HouseAgent UI these rules were built for
// expects these exact strings, misspellings included, so they are kept
// verbatim rather than corrected.
var (
	triggerPhrases = map[string]string{
		"eq": "is equal to",
		"ne": "is not equal to",
		"lt": "is less then",
		"gt": "is greater then",
	}

	conditionPhrases = map[string]string{
		"eq": "must be equal to",
		"ne": "must not be equal to",
		"lt": "must be less then",
		"gt": "must be greater then",
	}
)

// TriggerPhrase renders a comparison operator the way a trigger row
// describes it. Unknown operators fall through unchanged.
func TriggerPhrase(op string) string {
	if phrase, ok := triggerPhrases[op]; ok {
		return phrase
	}
	return op
}

// ConditionPhrase is TriggerPhrase's counterpart for condition rows.
func ConditionPhrase(op string) string {
	if phrase, ok := conditionPhrases[op]; ok {
		return phrase
	}
	return op
}

// DecodeCommand translates a stored on/off command parameter into its
// display form. Anything that is not the binary pair passes through.
func DecodeCommand(raw string) string {
	switch raw {
	case "1":
		return "on"
	case "0":
		return "off"
	default:
		return raw
	}
}
