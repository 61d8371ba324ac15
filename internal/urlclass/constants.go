package urlclass

// Constant sets used by classification. All are initialized once and never
// mutated, so concurrent readers need no synchronization.

// shortenerHosts are hosts known to redirect through a URL-shortening
// service.
var shortenerHosts = map[string]struct{}{
	"bit.ly":      {},
	"t.co":        {},
	"goo.gl":      {},
	"tinyurl.com": {},
	"ow.ly":       {},
	"buff.ly":     {},
	"cutt.ly":     {},
	"is.gd":       {},
	"adf.ly":      {},
}

// downloadExtensions mark links as executable/archive downloads.
var downloadExtensions = []string{
	".exe", ".apk", ".msi", ".bat", ".cmd", ".scr",
	".zip", ".rar", ".js", ".jar", ".7z",
}

// suspiciousTLDs are cheap abuse-heavy top-level domains. Matched as host
// suffixes, so ".zip" also catches "files.example.zip".
var suspiciousTLDs = []string{
	".zip", ".click", ".country", ".gq", ".tk", ".ml",
	".ga", ".cf", ".top", ".work", ".xyz",
}
