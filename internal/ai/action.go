// Package ai implements the enhancement gateway: prompt-template dispatch to
// a remote text-generation service, plus the single-flight session that
// carries a result from generation to an explicit user apply.
package ai

import "fmt"

// Action is a content-transformation intent.
type Action string

const (
	ActionSummarize    Action = "SUMMARIZE"
	ActionExpand       Action = "EXPAND"
	ActionRewriteSciFi Action = "REWRITE_SCIFI"
	ActionFixGrammar   Action = "FIX_GRAMMAR"
)

// Actions lists every valid action.
func Actions() []Action {
	return []Action{ActionSummarize, ActionExpand, ActionRewriteSciFi, ActionFixGrammar}
}

// ParseAction validates a wire-level action string.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	switch a {
	case ActionSummarize, ActionExpand, ActionRewriteSciFi, ActionFixGrammar:
		return a, nil
	}
	return "", fmt.Errorf("ai: unknown action %q", s)
}

// Prompt builds the full prompt for the action over the given content.
// Each action has exactly one template; an unknown action is an error.
func (a Action) Prompt(content string) (string, error) {
	switch a {
	case ActionSummarize:
		return "Analyze the following data log and provide a concise, high-level tactical summary (max 3 sentences). " +
			"Style: Military/Sci-fi Log.\n\nData:\n" + content, nil
	case ActionExpand:
		return "Expand upon the following data log entry. Add relevant details, hypotheticals, or logical extrapolations. " +
			"Keep the tone consistent with a futuristic database. \n\nEntry:\n" + content, nil
	case ActionRewriteSciFi:
		return "Rewrite the following text to sound like a transmission from a cyberpunk dystopia or high-tech spacecraft. " +
			"Use technical jargon (e.g., 'neural link', 'quantum flux', 'sub-routine').\n\nText:\n" + content, nil
	case ActionFixGrammar:
		return "Correct any syntax errors or data corruptions (grammar/spelling) in the following text. " +
			"Maintain original meaning strictly.\n\nText:\n" + content, nil
	}
	return "", fmt.Errorf("ai: no template for action %q", a)
}

// titlePrompt asks for a short display name for the given content.
func titlePrompt(content string) string {
	return "Generate a short, cool, sci-fi file name (max 5 words) for the following content. " +
		"Do not include file extensions like .txt. " +
		`Examples: "Project Alpha", "Sector 7 Report", "Neural Dump 01".` +
		"\n\nContent:\n" + content
}
