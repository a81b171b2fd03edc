package generator

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/goslate/internal/models"
)

// platformGuidelines steer tone and shape per platform.
var platformGuidelines = map[string]string{
	"twitter":    "Write for Twitter/X. Keep it concise, engaging and shareable. Use line breaks for readability.",
	"threads":    "Write for Threads. Slightly longer than Twitter is fine. Focus on storytelling and community engagement.",
	"reddit":     "Write for Reddit. Be authentic, helpful and community-focused. Avoid obvious self-promotion.",
	"linkedin":   "Write for LinkedIn. Professional tone but still engaging. Focus on insights and value.",
	"hackernews": "Write for a technical audience. Be direct and substantive. No marketing language.",
}

// contentTypeInstructions steer the post structure per content type.
var contentTypeInstructions = map[string]string{
	"hook":       "Create a compelling hook that stops scrolling. Start strong and make people want to read more.",
	"thread":     "Create the first post of a thread. Tease the value and indicate it's a thread.",
	"text":       "Create engaging text content that provides value and encourages interaction.",
	"tip":        "Share a specific, actionable tip that people can implement immediately.",
	"discussion": "Start a discussion by sharing an insight and asking for community input.",
	"experience": "Share a personal experience or story with lessons learned.",
}

// buildPrompt assembles the generation prompt for a slot. extra carries the
// retry instruction naming the previously failed criterion, empty on the
// first attempt.
func (g *Generator) buildPrompt(slot *models.ContentSlot, extra string) string {
	var b strings.Builder

	product := g.cfg.Product
	if product == "" {
		product = "our product"
	}

	fmt.Fprintf(&b, "You are writing social-media content promoting %s, ", product)
	b.WriteString("a tool that helps people write better posts with less overthinking. ")
	b.WriteString("Be conversational, helpful and human. Provide value first; mention the product only when it fits naturally.\n\n")

	fmt.Fprintf(&b, "Platform: %s\n", slot.Platform)
	if guide, ok := platformGuidelines[slot.Platform]; ok {
		b.WriteString(guide + "\n")
	}

	fmt.Fprintf(&b, "\nContent type: %s\n", slot.ContentType)
	if inst, ok := contentTypeInstructions[slot.ContentType]; ok {
		b.WriteString(inst + "\n")
	}

	if len(slot.Keywords) > 0 {
		fmt.Fprintf(&b, "\nTarget keywords: %s\n", strings.Join(slot.Keywords, ", "))
	}
	fmt.Fprintf(&b, "Character limit: %d. Stay under it.\n", slot.MaxChars)
	b.WriteString("Include the keywords naturally, open with a strong hook and end with a light call to action.\n")

	if extra != "" {
		b.WriteString("\n" + extra + "\n")
	}

	b.WriteString("\nReply with the post text only.")
	return b.String()
}
