package textenhancer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	feedbackMarker = "Professional feedback:"
	shortFeedback  = 5
)

func polishPrompt(text string) string {
	return fmt.Sprintf("Rewrite the following employee feedback to be more professional, clear, and constructive. "+
		"Keep it concise and maintain the original meaning and return only the rewritten version.\n\n"+
		"Feedback: %s\n\n"+
		"Professional version:", text)
}

func optionsPrompt(text string) string {
	return fmt.Sprintf("Generate exactly 3 different professional versions of the following employee feedback. "+
		"Each version should be clear, constructive, and professional, but with slightly different wording and tone. "+
		"Format your response as:\n"+
		"OPTION 1: [first version]\n"+
		"OPTION 2: [second version]\n"+
		"OPTION 3: [third version]\n\n"+
		"Original feedback: %s", text)
}

// LocalRewrite is the offline rewrite: trimmed, capitalised, terminated,
// and prefixed when shorter than five words.
func LocalRewrite(text string) string {
	improved := strings.TrimSpace(text)
	if improved == "" {
		return text
	}

	first, size := utf8.DecodeRuneInString(improved)
	if unicode.IsLower(first) {
		improved = string(unicode.ToUpper(first)) + improved[size:]
	}

	switch improved[len(improved)-1] {
	case '.', '!', '?':
	default:
		improved += "."
	}

	if len(strings.Fields(improved)) < shortFeedback {
		improved = feedbackMarker + " " + improved
	}
	return improved
}

func LocalOptions(text string) []string {
	base := LocalRewrite(text)
	return []string{
		base,
		"I would like to provide feedback: " + base,
		base + " Thank you for your consideration.",
	}
}

// cleanGenerated drops any echoed prompt before the feedback marker and
// strips quotes the model wrapped around its answer.
func cleanGenerated(text string) string {
	if _, after, found := strings.Cut(text, feedbackMarker); found {
		text = after
	}
	text = strings.TrimSpace(text)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}
	return text
}

var optionPrefixes = [3][]string{
	{"OPTION 1:", "Option 1:", "1."},
	{"OPTION 2:", "Option 2:", "2."},
	{"OPTION 3:", "Option 3:", "3."},
}

// parseOptions reads the "OPTION n:" answer format. When a numbered option
// is missing it takes the first three unlabelled lines instead.
func parseOptions(content string) ([]string, bool) {
	lines := strings.Split(content, "\n")
	options := make([]string, 3)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		for i, prefixes := range optionPrefixes {
			if rest, ok := cutAnyPrefix(line, prefixes); ok {
				options[i] = strings.TrimSpace(rest)
				break
			}
		}
	}

	if options[0] == "" || options[1] == "" || options[2] == "" {
		var plain []string
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(strings.ToLower(line), "option") {
				continue
			}
			plain = append(plain, line)
			if len(plain) == 3 {
				break
			}
		}
		if len(plain) == 3 {
			copy(options, plain)
		}
	}

	for i := range options {
		options[i] = cleanGenerated(options[i])
		if options[i] == "" {
			return nil, false
		}
	}
	return options, true
}

func cutAnyPrefix(s string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(s, p); ok {
			return rest, true
		}
	}
	return "", false
}
