package codegen

import (
	"fmt"
	"strings"

	"github.com/bgg292/toolsmith/internal/toolspec"
)

func buildInstructions(el toolspec.Elements) string {
	var sb strings.Builder
	sb.WriteString("You write small, deterministic browser scripts for static developer tool pages.\n")
	sb.WriteString("Output plain JavaScript only. No markdown, no code fences, no explanations.\n")
	sb.WriteString("Hard requirements:\n")
	sb.WriteString("- No network access of any kind: no fetch, XMLHttpRequest, WebSocket, EventSource, navigator.sendBeacon, dynamic import() or external resources.\n")
	sb.WriteString("- No side effects beyond the page: no cookies, no localStorage, no eval, no new Function.\n")
	sb.WriteString("- Wrap everything in an IIFE and run init only after the document has loaded (check document.readyState, otherwise listen for DOMContentLoaded).\n")
	sb.WriteString(fmt.Sprintf("- Bind to these element ids: input textarea %q, run button %q, copy button %q, output element %q. Return early if any is missing.\n",
		el.Input, el.Run, el.Copy, el.Output))
	sb.WriteString(fmt.Sprintf("- When %q is clicked, read the input value, compute the result and write it to the output element's textContent. Show a readable error message instead of throwing.\n", el.Run))
	sb.WriteString(fmt.Sprintf("- Enable %q only when there is output; on click copy the output with navigator.clipboard.writeText and fall back to an alert if the clipboard is blocked.\n", el.Copy))
	return sb.String()
}

func buildTask(spec *toolspec.ToolSpec, slug string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tool: %s (%s)\n", spec.Title, slug))
	if spec.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", spec.Description))
	}
	if spec.PlaceholderUI != "" {
		sb.WriteString(fmt.Sprintf("UI: %s\n", spec.PlaceholderUI))
	}
	if spec.BehaviorNotes != "" {
		sb.WriteString(fmt.Sprintf("Behavior: %s\n", spec.BehaviorNotes))
	}
	sb.WriteString(fmt.Sprintf("Write public/js/%s.js.", slug))
	return sb.String()
}
