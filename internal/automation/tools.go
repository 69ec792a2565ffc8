package automation

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolPrefix namespaces the tool catalogue. Calls may omit it.
const ToolPrefix = "vartui."

const (
	ToolSessionCreate   = "session.create"
	ToolSessionSnapshot = "session.snapshot"
	ToolSessionKey      = "session.key"
	ToolSessionAction   = "session.action"
	ToolSessionClose    = "session.close"
)

var viewNames = []string{"none", "tiny", "normal", "full"}

// responseOptionsSchema adds the verbosity arguments shared by every tool
// that returns a snapshot.
func responseOptionsSchema() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("view", mcp.Description("Snapshot verbosity."), mcp.Enum(viewNames...)),
		mcp.WithString("vw", mcp.Description("Alias of view."), mcp.Enum("0", "t", "n", "f")),
		mcp.WithNumber("max_days", mcp.Description("Days in a full snapshot."), mcp.Min(1), mcp.Max(maxMaxDays)),
		mcp.WithNumber("md", mcp.Description("Alias of max_days."), mcp.Min(1), mcp.Max(maxMaxDays)),
		mcp.WithNumber("max_entries_per_day", mcp.Description("Entries per day in a full snapshot."), mcp.Min(1), mcp.Max(maxMaxEntries)),
		mcp.WithNumber("me", mcp.Description("Alias of max_entries_per_day."), mcp.Min(1), mcp.Max(maxMaxEntries)),
		structuredSchema(),
		structuredAliasSchema(),
	}
}

func structuredSchema() mcp.ToolOption {
	return mcp.WithBoolean("structured", mcp.Description("Echo the payload as structuredContent."))
}

func structuredAliasSchema() mcp.ToolOption {
	return mcp.WithBoolean("stc", mcp.Description("Alias of structured."))
}

func sessionSchema() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("session_id", mcp.Description("Session id returned by session.create.")),
		mcp.WithString("sid", mcp.Description("Alias of session_id.")),
	}
}

func newTool(name, desc string, groups ...[]mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc)}
	for _, g := range groups {
		opts = append(opts, g...)
	}
	return mcp.NewTool(ToolPrefix+name, opts...)
}

// Tools is the static catalogue returned by tools/list.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		newTool(ToolSessionCreate,
			"Create an isolated client session and return its first snapshot (default view=tiny).",
			responseOptionsSchema(),
		),
		newTool(ToolSessionSnapshot,
			"Return the state of a session (default view=normal). Use view=tiny or view=none for smaller payloads.",
			sessionSchema(),
			responseOptionsSchema(),
			[]mcp.ToolOption{mcp.WithReadOnlyHintAnnotation(true)},
		),
		newTool(ToolSessionKey,
			"Replay one terminal key. Use key=text with text to type a string, or char:<x> for a single character.",
			sessionSchema(),
			[]mcp.ToolOption{
				mcp.WithString("key", mcp.Description("Key name: up, down, left, right, enter, esc, tab, backtab, backspace, space, ctrl+c, ctrl+r, ctrl+u, j, k, h, l, q, r, f, n, d, c, char:<x> or text.")),
				mcp.WithString("k", mcp.Description("Alias of key.")),
				mcp.WithString("text", mcp.Description("Text typed when key=text.")),
				mcp.WithString("t", mcp.Description("Alias of text.")),
			},
			responseOptionsSchema(),
		),
		newTool(ToolSessionAction,
			"Run one semantic action or an ordered batch in actions. Short aliases are accepted (a, f, v, k, t, i, sid, vw).",
			sessionSchema(),
			[]mcp.ToolOption{
				mcp.WithString("action", mcp.Description("Action name or alias, e.g. next_day or nd.")),
				mcp.WithString("a", mcp.Description("Alias of action.")),
				mcp.WithArray("actions",
					mcp.Description("Batch of action objects, each with its own action and arguments."),
					mcp.Items(map[string]any{"type": "object"}),
				),
				mcp.WithString("field", mcp.Description("Form field for set_entry_field, set_config_field and config_clear_field.")),
				mcp.WithString("f", mcp.Description("Alias of field.")),
				mcp.WithString("value", mcp.Description("Field value; numbers and booleans are accepted too.")),
				mcp.WithString("v", mcp.Description("Alias of value.")),
				mcp.WithString("key", mcp.Description("Key name for send_key.")),
				mcp.WithString("k", mcp.Description("Alias of key.")),
				mcp.WithString("text", mcp.Description("Text for type_text or send_key with key=text.")),
				mcp.WithString("t", mcp.Description("Alias of text.")),
				mcp.WithNumber("index", mcp.Description("Filtered project index for select_project."), mcp.Min(0)),
				mcp.WithNumber("i", mcp.Description("Alias of index."), mcp.Min(0)),
			},
			responseOptionsSchema(),
		),
		newTool(ToolSessionClose,
			"Close a session and release its state.",
			sessionSchema(),
			[]mcp.ToolOption{structuredSchema(), structuredAliasSchema(), mcp.WithDestructiveHintAnnotation(true)},
		),
	}
}

// canonicalTool strips the namespace so both spellings dispatch alike.
func canonicalTool(name string) string {
	return strings.TrimPrefix(name, ToolPrefix)
}
