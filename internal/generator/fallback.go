package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/goslate/internal/models"
)

// fallbackTemplates are safe generic posts keyed by content type. %s is the
// slot's first keyword.
var fallbackTemplates = map[string]string{
	"hook":       "Most people overthink %s. The ones who win just start, learn and adjust. What's stopping you?",
	"thread":     "A few things I've learned about %s the hard way. Worth a read if you're just getting started.",
	"tip":        "Quick tip on %s: block 20 minutes, write the rough version first, edit later. Done beats perfect.",
	"discussion": "Curious how others approach %s. What's working for you right now?",
	"experience": "I spent months struggling with %s before I found a routine that stuck. Happy to share what changed.",
}

// defaultFallback is used when the content type has no template.
const defaultFallback = "Consistency beats intensity when it comes to %s. Small daily reps compound. What's your take?"

// fallbackText builds the generic placeholder for a slot, trimmed to the
// slot's character limit.
func (g *Generator) fallbackText(slot *models.ContentSlot) string {
	keyword := "creating content"
	if len(slot.Keywords) > 0 && slot.Keywords[0] != "" {
		keyword = slot.Keywords[0]
	}

	template, ok := fallbackTemplates[slot.ContentType]
	if !ok {
		template = defaultFallback
	}
	text := fmt.Sprintf(template, keyword)

	if slot.MaxChars > 0 && utf8.RuneCountInString(text) > slot.MaxChars {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:slot.MaxChars]))
	}
	return text
}
