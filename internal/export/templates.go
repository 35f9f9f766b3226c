package export

// transcriptTemplate is the Go html/template for an exported session.
const transcriptTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Session {{.SessionID}}</title>
  <style>
:root {
  --bg: #ffffff;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --user-bg: #e7f5ff;
  --assistant-bg: #f8f9fa;
  --code-bg: #f1f3f5;
  --content-max-width: 800px;
}
@media (prefers-color-scheme: dark) {
  :root {
    --bg: #1a1b26;
    --text: #c0caf5;
    --text-muted: #565f89;
    --border: #292e42;
    --accent: #7aa2f7;
    --user-bg: #1a2b42;
    --assistant-bg: #1f2030;
    --code-bg: #1f2030;
  }
}
* { box-sizing: border-box; }
body {
  margin: 0 auto;
  padding: 2rem 1rem 4rem;
  max-width: var(--content-max-width);
  background: var(--bg);
  color: var(--text);
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  line-height: 1.6;
}
header {
  border-bottom: 1px solid var(--border);
  padding-bottom: 1rem;
  margin-bottom: 2rem;
}
header h1 { margin: 0 0 0.25rem; font-size: 1.4rem; }
header .meta { color: var(--text-muted); font-size: 0.85rem; }
.message {
  margin-bottom: 1rem;
  padding: 0.75rem 1rem;
  border-radius: 8px;
  border: 1px solid var(--border);
}
.message.user { background: var(--user-bg); }
.message.assistant { background: var(--assistant-bg); }
.message .role {
  font-size: 0.75rem;
  font-weight: 600;
  text-transform: uppercase;
  letter-spacing: 0.05em;
  color: var(--accent);
  margin-bottom: 0.25rem;
}
.message p { margin: 0.5rem 0; white-space: pre-wrap; }
.message pre {
  background: var(--code-bg);
  padding: 0.75rem;
  border-radius: 6px;
  overflow-x: auto;
}
.message code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 0.9em; }
.memory {
  margin-top: 2rem;
  padding: 1rem;
  border: 1px dashed var(--border);
  border-radius: 8px;
}
.memory h2 { margin-top: 0; font-size: 1rem; color: var(--text-muted); }
.memory pre {
  margin: 0;
  white-space: pre-wrap;
  font-family: ui-monospace, SFMono-Regular, Menlo, monospace;
  font-size: 0.85rem;
}
  </style>
</head>
<body>
  <header>
    <h1>Session {{.SessionID}}</h1>
    <div class="meta">exported {{.GeneratedAt}} &middot; {{len .Messages}} messages &middot; {{.TokenCount}} tokens{{if .SummarizedTo}} &middot; {{.SummarizedTo}} summarized{{end}}</div>
  </header>
  {{range .Messages}}
  <div class="message {{.Role}}">
    <div class="role">{{.Role}}</div>
    {{.Content}}
  </div>
  {{end}}
  {{if .MemoryBlock}}
  <div class="memory">
    <h2>Session memory</h2>
    <pre>{{.MemoryBlock}}</pre>
  </div>
  {{end}}
</body>
</html>`
