package filter

// DefaultIgnorePatterns is the built-in ignore set applied to every
// scan. These are directories and files that are never useful in an
// onboarding index. All patterns are lowercase; matching is
// case-insensitive.
var DefaultIgnorePatterns = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// Dependencies
	"node_modules",
	"vendor",
	"bower_components",
	".npm",
	".yarn",

	// Build output
	"dist",
	"build",
	"out",
	"target",
	"obj",
	"*.egg-info",

	// Python
	"__pycache__",
	"*.pyc",
	"*.pyo",
	".venv",
	"venv",
	".env",
	".pytest_cache",
	".mypy_cache",

	// IDE / editor
	".idea",
	".vscode",
	".vs",
	"*.swp",
	"*.swo",

	// OS files
	".ds_store",
	"thumbs.db",
	"desktop.ini",

	// Compiled artifacts
	"*.exe",
	"*.dll",
	"*.so",
	"*.dylib",
	"*.o",
	"*.a",
	"*.class",
	"*.jar",

	// Archives and media
	"*.zip",
	"*.tar",
	"*.tar.gz",
	"*.tgz",
	"*.rar",
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.ico",
	"*.pdf",
	"*.woff",
	"*.woff2",
	"*.ttf",
	"*.mp3",
	"*.mp4",

	// Minified / generated
	"*.min.js",
	"*.min.css",
	"*.map",

	// Lock files
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"poetry.lock",
	"cargo.lock",
	"go.sum",

	// Coverage / caches
	"coverage",
	".nyc_output",
	"htmlcov",
	".cache",
	".next",
	".nuxt",

	// Logs and databases
	"*.log",
	"*.sqlite",
	"*.sqlite3",
	"*.db",
}
