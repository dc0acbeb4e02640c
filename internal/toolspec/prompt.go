package toolspec

const instructions = `Propose ONE new in-browser developer utility tool.
Constraints:
- Must be fully client-side (no network calls).
- Must not facilitate abuse.
- Must not require the user to enter secrets, credentials or API keys.
Return a JSON object with exactly these string fields:
- slug: short lowercase identifier using a-z, 0-9 and hyphens
- title: human-readable tool name
- description: one sentence describing what the tool does
- placeholder_ui: the inputs and outputs the page should show
- behavior_notes: how the output is computed from the input, including edge cases
Return JSON only.`

const strictSuffix = `

Your previous answer could not be parsed.
Output JSON only: a single JSON object, no prose, no markdown, no code fences.`

const task = "Choose something useful not already in the repo. Avoid JWT signing, credential cracking, anything abusive."
