package demoserver

// PageVersion represents a specific version of a page with its HTML content
// and headers.
type PageVersion struct {
	HTML        string
	ContentType string
	Headers     map[string]string
}

// PageDefinition holds all versions of a single page.
type PageDefinition struct {
	Path        string
	Description string
	Versions    map[int]PageVersion
}

// GetAllPages returns all demo page definitions. Each page exercises a
// different slice of the scanner's heuristics.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		getHomePage(),
		getCleanPage(),
		getPhishyPage(),
		getHandlersPage(),
		getVersionedPage(),
		getCSPPage(),
	}
}

// ===== HOME PAGE =====
func getHomePage() PageDefinition {
	return PageDefinition{
		Path:        "/",
		Description: "Index linking every fixture page",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head>
    <title>SiteGuard Fixtures</title>
</head>
<body>
    <h1>SiteGuard demo pages</h1>
    <p>Point /api/scan?url=... at any of these:</p>
    <ul>
        <li><a href="/clean">Clean page (score 0)</a></li>
        <li><a href="/phishy">Phishy page (trips most heuristics)</a></li>
        <li><a href="/handlers">Inline handler farm (&gt;20 onclick)</a></li>
        <li><a href="/versioned">Versioned page (for scan diffs)</a></li>
        <li><a href="/csp">CSP meta page (for /sandbox)</a></li>
    </ul>
    <p>Control panel: <a href="/demo/control">/demo/control</a></p>
</body>
</html>`,
			},
		},
	}
}

// ===== CLEAN PAGE =====
func getCleanPage() PageDefinition {
	return PageDefinition{
		Path:        "/clean",
		Description: "No links, scripts or forms; should score 0 / Low",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head>
    <title>Nothing to see here</title>
</head>
<body>
    <h1>A perfectly boring page</h1>
    <p>Static text only.</p>
</body>
</html>`,
			},
		},
	}
}

// ===== PHISHY PAGE =====
func getPhishyPage() PageDefinition {
	return PageDefinition{
		Path:        "/phishy",
		Description: "Trips meta-refresh, inline JS, shorteners, IP/TLD links, downloads, HTTP form, hidden iframe, unload trap, fingerprinting",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head>
    <title>Totally Legit Bank</title>
    <meta http-equiv="refresh" content="30;url=http://203.0.113.7/next">
</head>
<body onbeforeunload="return 'wait!'">
    <h1>Verify your account</h1>
    <script>
        eval(atob("Y29uc29sZS5sb2coMSk="));
        document.write("<p>loading...</p>");
    </script>
    <script>
        var s = "data:text/javascript,alert(1)";
    </script>
    <a href="http://bit.ly/a">offer</a>
    <a href="http://bit.ly/b">offer</a>
    <a href="http://bit.ly/c">offer</a>
    <a href="http://bit.ly/d">offer</a>
    <a href="http://203.0.113.5/pay">pay now</a>
    <a href="http://cheap-prizes.xyz/win">win</a>
    <a href="/files/invoice.exe">invoice</a>
    <a href="/report.pdf" download>report</a>
    <a href="data:text/plain;base64,aGVsbG8=">inline data</a>
    <form action="http://insecure.example.com/login" method="post">
        <input name="user"><input name="pass" type="password">
    </form>
    <iframe src="/tracker" width="0" height="0"></iframe>
    <iframe src="/overlay" style="display:none"></iframe>
    <script>
        var fp = navigator.hardwareConcurrency + " " + navigator.deviceMemory;
    </script>
</body>
</html>`,
			},
		},
	}
}

// ===== HANDLERS PAGE =====
func getHandlersPage() PageDefinition {
	html := `<!DOCTYPE html>
<html>
<head><title>Click farm</title></head>
<body>
`
	for i := 0; i < 25; i++ {
		html += `    <button onclick="go()">btn</button>
`
	}
	html += `</body>
</html>`

	return PageDefinition{
		Path:        "/handlers",
		Description: "25 onclick attributes; crosses the >20 inline-handler threshold",
		Versions: map[int]PageVersion{
			1: {HTML: html},
		},
	}
}

// ===== VERSIONED PAGE =====
func getVersionedPage() PageDefinition {
	return PageDefinition{
		Path:        "/versioned",
		Description: "Three versions; rescan after bumping to see changed=true and /api/scans/{id}/diff",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Release notes v1</title></head>
<body>
    <h1>Version 1</h1>
    <p>Initial content.</p>
</body>
</html>`,
			},
			2: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Release notes v2</title></head>
<body>
    <h1>Version 2</h1>
    <p>Initial content.</p>
    <p>An update arrived.</p>
</body>
</html>`,
			},
			3: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Release notes v3</title></head>
<body>
    <h1>Version 3</h1>
    <p>An update arrived.</p>
    <a href="http://203.0.113.9/changed">suspicious new link</a>
</body>
</html>`,
			},
		},
	}
}

// ===== CSP PAGE =====
func getCSPPage() PageDefinition {
	return PageDefinition{
		Path:        "/csp",
		Description: "Carries a CSP meta the sandbox rewriter must strip",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head>
    <title>Framed out</title>
    <meta http-equiv="Content-Security-Policy" content="frame-ancestors 'none'">
    <link rel="stylesheet" href="style.css">
</head>
<body>
    <h1>This page refuses to be framed</h1>
    <img src="logo.png">
</body>
</html>`,
			},
		},
	}
}
