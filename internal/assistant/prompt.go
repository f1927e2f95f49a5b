package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VocabularyMarker is the substitution point a custom prompt template must
// contain to receive the live inventory snapshot and vocabularies. When the
// marker is absent the vocabulary block is appended instead.
const VocabularyMarker = "{{VOCABULARY}}"

const defaultCommandTemplate = `You are an inventory assistant. Turn the user's request into a list of actions against their storage bins.

IMPORTANT: You must respond with valid JSON only, no other text or explanations.

The JSON must have this exact structure:
{
  "actions": [ ...one object per action... ],
  "interpretation": "one-line summary of what you understood"
}

Each action object has a "type" field plus the fields for that type:
- {"type": "add_items", "bin_name": "...", "items": ["..."]}
- {"type": "remove_items", "bin_name": "...", "items": ["..."]}
- {"type": "modify_item", "bin_name": "...", "old_item": "...", "new_item": "..."}
- {"type": "create_bin", "name": "...", "area_name": "...", "items": ["..."], "tags": ["..."], "notes": "...", "icon": "...", "color": "..."} (only name is required)
- {"type": "delete_bin", "bin_name": "..."}
- {"type": "add_tags", "bin_name": "...", "tags": ["..."]}
- {"type": "remove_tags", "bin_name": "...", "tags": ["..."]}
- {"type": "modify_tag", "bin_name": "...", "old_tag": "...", "new_tag": "..."}
- {"type": "set_area", "bin_name": "...", "area_name": "..."}
- {"type": "set_notes", "bin_name": "...", "notes": "...", "mode": "replace|append|clear"}
- {"type": "set_icon", "bin_name": "...", "icon": "..."}
- {"type": "set_color", "bin_name": "...", "color": "..."}

Rules:
- "bin_name" must exactly match the name of a bin from the inventory snapshot below.
- "icon" and "color" values must come from the allowed lists below. Never invent new ones.
- Moving items between bins is a remove_items from the source plus an add_items to the target.
- If the request does not match any bin or is too ambiguous to act on, return an empty actions array and explain in "interpretation".
- Always fill "interpretation" with a short plain-language summary of what you understood.

` + VocabularyMarker + `

Respond with JSON only.`

// injectVocabulary substitutes the live vocabulary block into a template at
// the marker, or appends it when the marker is missing
func injectVocabulary(template, vocabulary string) string {
	if strings.Contains(template, VocabularyMarker) {
		return strings.ReplaceAll(template, VocabularyMarker, vocabulary)
	}
	return template + "\n\n" + vocabulary
}

// buildVocabularyBlock renders the inventory snapshot as structured data
// (not prose) so the model can echo exact names back, plus the fixed
// color/icon vocabularies enumerated verbatim.
func buildVocabularyBlock(cmdCtx CommandContext) (string, error) {
	snapshot := struct {
		Bins  []BinSummary  `json:"bins"`
		Areas []AreaSummary `json:"areas"`
	}{
		Bins:  cmdCtx.Bins,
		Areas: cmdCtx.Areas,
	}
	if snapshot.Bins == nil {
		snapshot.Bins = []BinSummary{}
	}
	if snapshot.Areas == nil {
		snapshot.Areas = []AreaSummary{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal inventory snapshot: %w", err)
	}

	var b strings.Builder
	b.WriteString("Inventory snapshot (JSON):\n")
	b.Write(data)
	b.WriteString("\n\nAllowed colors: ")
	b.WriteString(strings.Join(cmdCtx.Colors, ", "))
	b.WriteString("\nAllowed icons: ")
	b.WriteString(strings.Join(cmdCtx.Icons, ", "))

	return b.String(), nil
}

// BuildCommandPrompt assembles the system prompt for one interpretation
// request. A non-empty override template is used verbatim apart from the
// vocabulary substitution. Deterministic, no side effects.
func BuildCommandPrompt(cmdCtx CommandContext, override string) (string, error) {
	vocabulary, err := buildVocabularyBlock(cmdCtx)
	if err != nil {
		return "", err
	}

	template := defaultCommandTemplate
	if override != "" {
		template = override
	}

	return injectVocabulary(template, vocabulary), nil
}

// BuildPhotoPrompt assembles the prompt for the photo-analysis flow
func BuildPhotoPrompt(existingTags []string) string {
	prompt := `You are an inventory assistant. Look at the attached photo(s) of the contents of a storage bin and suggest how to catalog it.

IMPORTANT: You must respond with valid JSON only, no other text or explanations.

The JSON must have this exact structure:
{
  "name": "short descriptive bin name",
  "items": ["each", "distinct", "item", "you", "can", "identify"],
  "tags": ["a", "few", "category", "tags"],
  "notes": "anything notable that does not fit elsewhere, empty string if nothing"
}`

	if len(existingTags) > 0 {
		prompt += "\n\nPrefer reusing these existing tags where they fit: " + strings.Join(existingTags, ", ")
	}

	prompt += "\n\nRespond with JSON only."
	return prompt
}

// BuildDictationPrompt assembles the prompt for the dictation-to-items flow
func BuildDictationPrompt(existingItems []string, binName string) string {
	prompt := `You are an inventory assistant. The user dictated or typed a description of items to add to a storage bin. Split it into a clean list of individual item names.

IMPORTANT: You must respond with valid JSON only, no other text or explanations.

The JSON must have this exact structure:
{
  "items": ["one", "entry", "per", "item"]
}

Rules:
- Normalize quantities into the item name ("two hammers" becomes "hammers (2)").
- Drop filler words; keep item names short and concrete.`

	if binName != "" {
		prompt += "\n\nThe items belong to a bin named: " + binName
	}
	if len(existingItems) > 0 {
		prompt += "\n\nThe bin already contains: " + strings.Join(existingItems, ", ") + "\nDo not repeat items that are already present."
	}

	prompt += "\n\nRespond with JSON only."
	return prompt
}
