package mcpserver

// LogFormatContract describes the note model and the enhancement actions
// that LLM consumers should follow when working with the data log.
const LogFormatContract = `# Nebula Log Format Contract

Every entry in the Nebula data log is a note with this shape.

## Fields

` + "```" + `json
{
  "id": "uuid",                  // assigned by the store, never change it
  "title": "short display name", // may be empty; auto-titled after enhancement
  "content": "body text",        // plain text or Markdown
  "createdAt": 1737331200000,    // epoch milliseconds, immutable
  "updatedAt": 1737331200000,    // epoch milliseconds, refreshed on edits
  "tags": [],                    // reserved for future use, keep as-is
  "isFavorite": false            // toggled independently of edits
}
` + "```" + `

## Rules

1. **Never invent ids.** Only the store assigns them; reference notes by the
   ids returned from list_notes or create_note.
2. **Edits go through update_note.** Supply only the fields you change;
   absent fields are left untouched. createdAt and id cannot be edited.
3. **Deletion is destructive and requires confirmation.** Pass confirm=true
   to delete_note only when the user has explicitly asked for removal.
4. **Favorites are a flag, not an edit.** toggle_favorite does not refresh
   updatedAt.
5. **Notes are ordered newest-first.** list_notes returns them in that order.

## Enhancement

enhance_note runs one AI action over a note's content and returns the
proposed replacement text without touching the note. Actions:

- SUMMARIZE: condense into a short summary.
- EXPAND: elaborate with more detail.
- REWRITE_SCIFI: rewrite in a futuristic sci-fi log style.
- FIX_GRAMMAR: correct spelling and grammar only.

Pass apply=true to write the result back into the note in the same call.
An untitled note gains a generated title after an applied enhancement.
`
