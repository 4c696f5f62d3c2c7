// Package language maps file paths to language hints for index entries
// and sniffs binary content before it reaches the search index.
package language

import (
	"path/filepath"
	"strings"
)

// extensionToLanguage maps lowercase extensions (without dot) to
// language names.
var extensionToLanguage = map[string]string{
	"go": "Go",
	"js": "JavaScript", "jsx": "JavaScript", "mjs": "JavaScript", "cjs": "JavaScript",
	"ts": "TypeScript", "tsx": "TypeScript",
	"py": "Python", "pyi": "Python",
	"rs":   "Rust",
	"java": "Java", "kt": "Kotlin",
	"c": "C", "h": "C",
	"cpp": "C++", "cc": "C++", "hpp": "C++",
	"cs":    "C#",
	"swift": "Swift",
	"rb":    "Ruby", "erb": "Ruby",
	"php": "PHP",
	"sh":  "Shell", "bash": "Shell", "zsh": "Shell",
	"ps1":  "PowerShell",
	"html": "HTML", "htm": "HTML",
	"css": "CSS", "scss": "SCSS", "less": "Less",
	"vue": "Vue", "svelte": "Svelte",
	"json": "JSON", "jsonc": "JSON",
	"yaml": "YAML", "yml": "YAML",
	"toml": "TOML",
	"xml":  "XML",
	"ini":  "INI",
	"env":  "Env",
	"md":   "Markdown", "mdx": "Markdown",
	"rst":     "reStructuredText",
	"sql":     "SQL",
	"graphql": "GraphQL",
	"proto":   "Protobuf",
	"tf":      "Terraform",
	"lua":     "Lua",
	"scala":   "Scala",
	"ex":      "Elixir", "exs": "Elixir",
	"hs":  "Haskell",
	"zig": "Zig",
	"txt": "Text",
	"csv": "CSV",
}

// Detect returns the language hint for a file path based on its
// extension, falling back to well-known filenames. Returns "" when
// nothing is recognized.
func Detect(filePath string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if ext == "" {
		switch strings.ToLower(filepath.Base(filePath)) {
		case "makefile", "gnumakefile":
			return "Makefile"
		case "dockerfile":
			return "Dockerfile"
		case "gemfile", "rakefile":
			return "Ruby"
		case ".gitignore", ".gitattributes":
			return "Git Config"
		case ".env":
			return "Env"
		}
		return ""
	}
	return extensionToLanguage[ext]
}
